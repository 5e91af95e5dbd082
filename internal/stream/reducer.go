package stream

// Reduce applies a transcription event to the session state and returns the
// next state. It never performs I/O and never retains references to the
// input state's mutable fields. Events arriving after the session has
// completed or failed are dropped.
func Reduce(state State, event Event) State {
	if state.Terminal() {
		return state
	}
	switch event.Kind {
	case KindMetadata:
		return applyMetadata(state, event)
	case KindPage:
		return applyPagePreview(state, event)
	case KindPhase:
		return applyPhase(state, event)
	case KindRawChunk:
		return applyRawChunk(state, event)
	case KindRawComplete:
		return applyRawComplete(state, event)
	case KindVerifiedChunk:
		return applyVerifiedChunk(state, event)
	case KindPageComplete:
		return applyPageComplete(state, event)
	case KindAnswer:
		return applyAnswer(state, event)
	case KindDone:
		state.Phase = PhaseDone
		state.Complete = true
		return state
	case KindError:
		state.Error = event.Message
		return state
	}
	return state
}

// applyMetadata overwrites the metadata wholesale. Page states are kept.
func applyMetadata(state State, event Event) State {
	if event.Metadata == nil {
		return state
	}
	state.Metadata = *event.Metadata
	return state
}

// applyPagePreview registers a preview entry without touching text.
func applyPagePreview(state State, event Event) State {
	if event.Page == nil {
		return state
	}
	page, ok := state.Pages.Get(event.Page.PageNumber)
	if !ok {
		page = PageState{Number: event.Page.PageNumber, Phase: PageRaw}
	}
	page.PageIndex = event.Page.PageIndex
	state.Pages = state.Pages.set(page)
	return state
}

// applyPhase updates progress fields. The session phase is monotonic:
// updates that would regress it are dropped wholesale.
func applyPhase(state State, event Event) State {
	update := event.PhaseUpdate
	if update == nil {
		return state
	}
	if phaseRank[update.Phase] < phaseRank[state.Phase] {
		return state
	}
	state.Phase = update.Phase
	state.CurrentPage = update.CurrentPage
	state.TotalPages = update.TotalPages
	state.PhaseMessage = update.Message
	return state
}

// applyRawChunk appends a raw delta, creating the page if needed. Deltas
// for completed pages and empty deltas are no-ops.
func applyRawChunk(state State, event Event) State {
	if event.Delta == "" {
		return state
	}
	page := ensurePage(state, event.PageNumber)
	if page.Phase == PageComplete {
		return state
	}
	page.RawText += event.Delta
	page.Streaming = true
	state.Pages = state.Pages.set(page)
	return state
}

// applyRawComplete replaces the raw text wholesale, guarding against
// dropped or duplicated chunks. The page phase stays raw until
// verification begins.
func applyRawComplete(state State, event Event) State {
	page := ensurePage(state, event.PageNumber)
	if page.Phase == PageComplete {
		return state
	}
	page.RawText = event.FullText
	page.Streaming = false
	state.Pages = state.Pages.set(page)
	return state
}

// applyVerifiedChunk appends a verified delta and moves the page into the
// verifying phase.
func applyVerifiedChunk(state State, event Event) State {
	if event.Delta == "" {
		return state
	}
	page := ensurePage(state, event.PageNumber)
	if page.Phase == PageComplete {
		return state
	}
	page.VerifiedText += event.Delta
	page.Phase = PageVerifying
	page.Streaming = true
	state.Pages = state.Pages.set(page)
	return state
}

// applyPageComplete sets the final page fields. Completion is terminal for
// the page: repeated completions and later chunks are dropped.
func applyPageComplete(state State, event Event) State {
	page := ensurePage(state, event.PageNumber)
	if page.Phase == PageComplete {
		return state
	}
	page.PageIndex = event.PageIndex
	page.MarkedText = event.MarkedText
	page.DetectedQuestions = copyInts(event.DetectedQuestions)
	page.ConfidenceScores = copyScores(event.ConfidenceScores)
	page.Phase = PageComplete
	page.Streaming = false
	state.Pages = state.Pages.set(page)
	return state
}

// applyAnswer appends the raw answer record. Deduplication is deferred to
// materialization.
func applyAnswer(state State, event Event) State {
	if event.Answer == nil {
		return state
	}
	answer := *event.Answer
	answer.PageIndexes = copyInts(event.Answer.PageIndexes)
	answers := make([]Answer, 0, len(state.Answers)+1)
	answers = append(answers, state.Answers...)
	answers = append(answers, answer)
	state.Answers = answers
	return state
}

// ensurePage returns the page state, creating a fresh raw entry for
// unknown page references. Out-of-order delivery is tolerated rather than
// rejected.
func ensurePage(state State, number int) PageState {
	if page, ok := state.Pages.Get(number); ok {
		return page
	}
	return PageState{Number: number, Phase: PageRaw, Streaming: true}
}

func copyInts(values []int) []int {
	if values == nil {
		return nil
	}
	out := make([]int, len(values))
	copy(out, values)
	return out
}

func copyScores(scores map[int]float64) map[int]float64 {
	if scores == nil {
		return nil
	}
	out := make(map[int]float64, len(scores))
	for question, score := range scores {
		out[question] = score
	}
	return out
}
