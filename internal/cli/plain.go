package cli

import (
	"fmt"
	"io"

	"gradescribe/internal/stream"
)

// plainObserver prints one line per significant session event. It is the
// non-TTY fallback for the live UI.
type plainObserver struct {
	out io.Writer
}

func newPlainObserver(out io.Writer) *plainObserver {
	return &plainObserver{out: out}
}

// OnEvent prints progress lines for page and phase milestones. Chunk
// deltas are intentionally silent.
func (p *plainObserver) OnEvent(event stream.Event, state stream.State) {
	switch event.Kind {
	case stream.KindMetadata:
		if event.Metadata != nil {
			fmt.Fprintf(p.out, "Loaded %s (%d pages)\n", event.Metadata.Filename, event.Metadata.TotalPages)
		}
	case stream.KindPhase:
		if event.PhaseUpdate != nil && event.PhaseUpdate.Message != "" {
			fmt.Fprintf(p.out, "Phase %s: %s\n", event.PhaseUpdate.Phase, event.PhaseUpdate.Message)
		}
	case stream.KindRawComplete:
		fmt.Fprintf(p.out, "Page %d transcribed\n", event.PageNumber)
	case stream.KindPageComplete:
		fmt.Fprintf(p.out, "Page %d verified\n", event.PageNumber)
	case stream.KindAnswer:
		if event.Answer != nil {
			fmt.Fprintf(p.out, "Answer received for question %d\n", event.Answer.Question)
		}
	case stream.KindError:
		fmt.Fprintf(p.out, "Stream error: %s\n", event.Message)
	}
}

// OnSessionEnd prints the terminal summary line.
func (p *plainObserver) OnSessionEnd(state stream.State) {
	if state.Error != "" {
		fmt.Fprintf(p.out, "Session failed: %s\n", state.Error)
		return
	}
	fmt.Fprintf(p.out, "Session complete: %d pages, %d answers\n", state.Pages.Len(), len(state.Answers))
}
