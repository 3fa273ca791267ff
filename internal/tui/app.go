// internal/tui/app.go
//
// Interactive progress view for a fix run. It uses bubbletea, which follows
// The Elm Architecture:
//
// 1. Model: the run state (which manifest is next, what happened so far)
// 2. Update: advances the state when a manifest finishes
// 3. View: renders the progress bar and the recent results
//
// Manifests are still fixed one at a time: the next file is only dispatched
// once the previous file's result message has been handled.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/composer-fixer/internal/fixer"
)

const (
	maxVisibleResults = 8
	defaultBarWidth   = 40
)

// Stepper fixes manifests one by one. *fixer.Runner implements it.
type Stepper interface {
	Step(path string) (fixer.Outcome, error)
	Finish() fixer.Summary
}

// fileDoneMsg carries the result of a single Step.
type fileDoneMsg struct {
	outcome fixer.Outcome
	err     error
}

type resultLine struct {
	path    string
	fixed   bool
	written bool
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	fixedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cleanStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// App is the bubbletea model for an interactive run.
type App struct {
	runner Stepper
	files  []string
	index  int

	results  []resultLine
	progress progress.Model
	spinner  spinner.Model

	// quitting is set when the user asked to stop while a file was in flight.
	quitting bool
	done     bool
	err      error
	summary  fixer.Summary
}

// NewApp builds the model for files.
func NewApp(runner Stepper, files []string) *App {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(defaultBarWidth))
	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	return &App{
		runner:   runner,
		files:    append([]string(nil), files...),
		progress: bar,
		spinner:  spin,
	}
}

// Run drives the interactive view until every manifest is processed, the
// user quits, or a manifest fails.
func Run(runner Stepper, files []string, opts ...tea.ProgramOption) (fixer.Summary, error) {
	app := NewApp(runner, files)
	final, err := tea.NewProgram(app, opts...).Run()
	if err != nil {
		return fixer.Summary{}, fmt.Errorf("tui: %w", err)
	}
	result, ok := final.(*App)
	if !ok {
		return fixer.Summary{}, fmt.Errorf("tui: unexpected model %T", final)
	}
	return result.Summary(), result.Err()
}

// Summary returns the run totals once the view is done.
func (a *App) Summary() fixer.Summary {
	return a.summary
}

// Err returns the failure that stopped the run, if any.
func (a *App) Err() error {
	return a.err
}

// Init starts the spinner and the first manifest.
func (a *App) Init() tea.Cmd {
	if len(a.files) == 0 {
		a.done = true
		a.summary = a.runner.Finish()
		return tea.Quit
	}
	return tea.Batch(a.spinner.Tick, a.stepCmd())
}

// stepCmd fixes the manifest at the current index.
func (a *App) stepCmd() tea.Cmd {
	if a.index >= len(a.files) {
		return nil
	}
	path := a.files[a.index]
	runner := a.runner
	return func() tea.Msg {
		outcome, err := runner.Step(path)
		return fileDoneMsg{outcome: outcome, err: err}
	}
}

// Update advances the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if a.done {
				return a, tea.Quit
			}
			// Let the manifest in flight finish before exiting.
			a.quitting = true
			return a, nil
		}
		return a, nil
	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > defaultBarWidth*2 {
			width = defaultBarWidth * 2
		}
		if width > 10 {
			a.progress.Width = width
		}
		return a, nil
	case spinner.TickMsg:
		if a.done {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case progress.FrameMsg:
		model, cmd := a.progress.Update(msg)
		if bar, ok := model.(progress.Model); ok {
			a.progress = bar
		}
		return a, cmd
	case fileDoneMsg:
		return a.handleFileDone(msg)
	}
	return a, nil
}

func (a *App) handleFileDone(msg fileDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.err = msg.err
		a.done = true
		a.summary = a.runner.Finish()
		return a, tea.Quit
	}
	a.results = append(a.results, resultLine{
		path:    msg.outcome.Path,
		fixed:   msg.outcome.Changed,
		written: msg.outcome.Written,
	})
	a.index++
	barCmd := a.progress.SetPercent(a.percent())
	if a.index >= len(a.files) || a.quitting {
		a.done = true
		a.summary = a.runner.Finish()
		return a, tea.Sequence(barCmd, tea.Quit)
	}
	return a, tea.Batch(barCmd, a.stepCmd())
}

func (a *App) percent() float64 {
	if len(a.files) == 0 {
		return 1
	}
	return float64(a.index) / float64(len(a.files))
}

// View renders the current state.
func (a *App) View() string {
	var b strings.Builder
	status := fmt.Sprintf("Fixing composer.json files (%d/%d)", a.index, len(a.files))
	if a.done {
		status = fmt.Sprintf("Processed %d of %d composer.json files", a.index, len(a.files))
	} else {
		status = a.spinner.View() + " " + status
	}
	b.WriteString(titleStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(a.progress.View())
	b.WriteString("\n\n")

	start := 0
	if len(a.results) > maxVisibleResults {
		start = len(a.results) - maxVisibleResults
	}
	for _, line := range a.results[start:] {
		switch {
		case line.fixed && line.written:
			b.WriteString(fixedStyle.Render("✔ Fixed: " + line.path))
		case line.fixed:
			b.WriteString(fixedStyle.Render("~ Would fix: " + line.path))
		default:
			b.WriteString(cleanStyle.Render("· " + line.path))
		}
		b.WriteString("\n")
	}

	switch {
	case a.err != nil:
		b.WriteString(errorStyle.Render("Error: " + a.err.Error()))
		b.WriteString("\n")
	case a.done:
		b.WriteString(titleStyle.Render(fmt.Sprintf("Done: %d of %d composer.json files fixed.", a.summary.Fixed, a.summary.Processed)))
		b.WriteString("\n")
	default:
		hint := "q: stop after the current file"
		if a.quitting {
			hint = "stopping after the current file..."
		}
		b.WriteString(footerStyle.Render(hint))
		b.WriteString("\n")
	}
	return b.String()
}
