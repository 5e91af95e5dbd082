package vision

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gradescribe/internal/stream"
)

// wireEvent is the JSON envelope for one streamed transcription event.
type wireEvent struct {
	Type              string             `json:"type"`
	Metadata          *wireMetadata      `json:"metadata,omitempty"`
	Answer            *wireAnswer        `json:"answer,omitempty"`
	Phase             string             `json:"phase,omitempty"`
	CurrentPage       int                `json:"current_page,omitempty"`
	TotalPages        int                `json:"total_pages,omitempty"`
	Message           string             `json:"message,omitempty"`
	PageNumber        int                `json:"page_number,omitempty"`
	PageIndex         int                `json:"page_index,omitempty"`
	Delta             string             `json:"delta,omitempty"`
	FullText          string             `json:"full_text,omitempty"`
	MarkedText        string             `json:"marked_text,omitempty"`
	DetectedQuestions []int              `json:"detected_questions,omitempty"`
	ConfidenceScores  map[string]float64 `json:"confidence_scores,omitempty"`
	TotalAnswers      int                `json:"total_answers,omitempty"`
}

type wireMetadata struct {
	RubricID    string `json:"rubric_id"`
	StudentName string `json:"student_name"`
	Filename    string `json:"filename"`
	TotalPages  int    `json:"total_pages"`
}

type wireAnswer struct {
	QuestionNumber     int     `json:"question_number"`
	SubQuestionID      *string `json:"sub_question_id"`
	AnswerText         string  `json:"answer_text"`
	Confidence         float64 `json:"confidence"`
	PageIndexes        []int   `json:"page_indexes"`
	TranscriptionNotes string  `json:"transcription_notes"`
}

// decodeEvent converts one SSE payload into a transcription event.
func decodeEvent(data []byte) (stream.Event, error) {
	var wire wireEvent
	if err := json.Unmarshal(data, &wire); err != nil {
		return stream.Event{}, fmt.Errorf("parse stream event: %w", err)
	}
	switch wire.Type {
	case "metadata":
		if wire.Metadata == nil {
			return stream.Event{}, fmt.Errorf("metadata event without payload")
		}
		return stream.Event{Kind: stream.KindMetadata, Metadata: &stream.Metadata{
			RubricID:    wire.Metadata.RubricID,
			StudentName: wire.Metadata.StudentName,
			Filename:    wire.Metadata.Filename,
			TotalPages:  wire.Metadata.TotalPages,
		}}, nil
	case "page":
		return stream.Event{Kind: stream.KindPage, Page: &stream.PagePreview{
			PageNumber: wire.PageNumber,
			PageIndex:  wire.PageIndex,
		}}, nil
	case "phase":
		return stream.Event{Kind: stream.KindPhase, PhaseUpdate: &stream.PhaseUpdate{
			Phase:       stream.Phase(wire.Phase),
			CurrentPage: wire.CurrentPage,
			TotalPages:  wire.TotalPages,
			Message:     wire.Message,
		}}, nil
	case "raw_chunk":
		return stream.Event{Kind: stream.KindRawChunk, PageNumber: wire.PageNumber, Delta: wire.Delta}, nil
	case "raw_complete":
		return stream.Event{Kind: stream.KindRawComplete, PageNumber: wire.PageNumber, FullText: wire.FullText}, nil
	case "verified_chunk":
		return stream.Event{Kind: stream.KindVerifiedChunk, PageNumber: wire.PageNumber, Delta: wire.Delta}, nil
	case "page_complete":
		scores, err := decodeScores(wire.ConfidenceScores)
		if err != nil {
			return stream.Event{}, err
		}
		return stream.Event{
			Kind:              stream.KindPageComplete,
			PageNumber:        wire.PageNumber,
			PageIndex:         wire.PageIndex,
			MarkedText:        wire.MarkedText,
			DetectedQuestions: wire.DetectedQuestions,
			ConfidenceScores:  scores,
		}, nil
	case "answer":
		if wire.Answer == nil {
			return stream.Event{}, fmt.Errorf("answer event without payload")
		}
		answer := stream.Answer{
			Question:    wire.Answer.QuestionNumber,
			Text:        wire.Answer.AnswerText,
			Confidence:  wire.Answer.Confidence,
			PageIndexes: wire.Answer.PageIndexes,
			Notes:       wire.Answer.TranscriptionNotes,
		}
		if wire.Answer.SubQuestionID != nil {
			answer.SubQuestion = *wire.Answer.SubQuestionID
		}
		return stream.Event{Kind: stream.KindAnswer, Answer: &answer}, nil
	case "done":
		return stream.Event{Kind: stream.KindDone, TotalAnswers: wire.TotalAnswers}, nil
	case "error":
		return stream.Event{Kind: stream.KindError, Message: wire.Message}, nil
	default:
		return stream.Event{}, fmt.Errorf("unknown stream event type %q", wire.Type)
	}
}

// decodeScores converts JSON object keys back to question numbers.
func decodeScores(scores map[string]float64) (map[int]float64, error) {
	if scores == nil {
		return nil, nil
	}
	out := make(map[int]float64, len(scores))
	for key, score := range scores {
		question, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("parse confidence score key %q: %w", key, err)
		}
		out[question] = score
	}
	return out, nil
}
