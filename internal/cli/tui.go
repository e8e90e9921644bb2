package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/log"
)

// ===== Batch Progress Display =====

// batchDisplay shows live batch progress. With a terminal it runs a small
// bubbletea program; with --no-tui it logs one line per badge instead.
type batchDisplay struct {
	plain   bool
	logger  *log.Logger
	program *tea.Program
	stopped chan struct{}
}

func newBatchDisplay(total int, plain bool, logger *log.Logger) *batchDisplay {
	d := &batchDisplay{plain: plain, logger: logger, stopped: make(chan struct{})}
	if !plain {
		d.program = tea.NewProgram(
			newBatchModel(total),
			tea.WithOutput(os.Stderr),
			tea.WithoutSignalHandler(),
		)
	}
	return d
}

// start launches the progress program. Safe to call once.
func (d *batchDisplay) start() {
	if d.plain {
		close(d.stopped)
		return
	}
	go func() {
		defer close(d.stopped)
		// A display failure must not take the batch down with it.
		if _, err := d.program.Run(); err != nil {
			d.logger.Debugf("progress display stopped: %v", err)
		}
	}()
}

// report records the outcome of one badge. Safe for concurrent use.
func (d *batchDisplay) report(res batchResult) {
	if d.plain {
		switch {
		case res.err != nil:
			d.logger.Errorf("%s: %v", res.label, res.err)
		case len(res.warnings) > 0:
			d.logger.Warnf("%s: rendered with %d warning(s)", res.label, len(res.warnings))
		default:
			d.logger.Infof("%s: rendered", res.label)
		}
		return
	}
	d.program.Send(badgeMsg{
		label:  res.label,
		failed: res.err != nil,
		warned: len(res.warnings) > 0,
	})
}

// finish stops the display and waits for the terminal to be restored.
func (d *batchDisplay) finish() {
	if !d.plain {
		d.program.Send(batchDoneMsg{})
	}
	<-d.stopped
}

// ===== Bubbletea Model =====

// badgeMsg reports one finished badge to the model.
type badgeMsg struct {
	label  string
	failed bool
	warned bool
}

// batchDoneMsg tells the model the batch is complete.
type batchDoneMsg struct{}

// recentCount is how many finished badges the display keeps visible.
const recentCount = 5

// batchModel is the bubbletea model for batch progress.
type batchModel struct {
	total  int
	done   int
	failed int
	warned int
	recent []string
}

func newBatchModel(total int) batchModel {
	return batchModel{total: total}
}

func (m batchModel) Init() tea.Cmd {
	return nil
}

func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case badgeMsg:
		m.done++
		line := styleIconSuccess.Render(iconSuccess) + " " + msg.label
		if msg.failed {
			m.failed++
			line = styleIconError.Render(iconError) + " " + msg.label
		} else if msg.warned {
			m.warned++
			line = styleIconWarning.Render(iconWarning) + " " + msg.label
		}
		m.recent = append(m.recent, line)
		if len(m.recent) > recentCount {
			m.recent = m.recent[len(m.recent)-recentCount:]
		}
	case batchDoneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m batchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Rendering badges"))
	b.WriteString("\n\n")
	b.WriteString(progressBar(m.done, m.total, 30))
	b.WriteString(fmt.Sprintf(" %d/%d", m.done, m.total))
	if m.failed > 0 {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("  %d failed", m.failed)))
	}
	if m.warned > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %d with warnings", m.warned)))
	}
	b.WriteString("\n\n")
	for _, line := range m.recent {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

// progressBar renders a fixed-width bar like "▰▰▰▱▱".
func progressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	return StyleHighlight.Render(strings.Repeat("▰", filled)) +
		StyleDim.Render(strings.Repeat("▱", width-filled))
}
