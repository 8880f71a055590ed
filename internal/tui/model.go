package tui

import (
	"context"
	"strings"
	"time"

	"stock-alpha-engine/internal/domain"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultAnalyzeTimeout = 45 * time.Second

type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*domain.AnalysisResponse, bool, error)
}

type state int

const (
	stateInput state = iota
	stateLoading
	stateResult
	stateError
)

type analysisMsg struct {
	resp   *domain.AnalysisResponse
	cached bool
}

type errMsg struct{ err error }

// Model is the SSH session UI: a ticker prompt, a spinner while the analysis
// runs, then the analysis card.
type Model struct {
	analyzer Analyzer
	username string
	timeout  time.Duration

	input   textinput.Model
	spinner spinner.Model

	state  state
	ticker string
	result *domain.AnalysisResponse
	cached bool
	err    error

	width  int
	height int
}

func NewModel(analyzer Analyzer, username string) *Model {
	ti := textinput.New()
	ti.Placeholder = "RELIANCE.NS"
	ti.Prompt = "Ticker › "
	ti.CharLimit = 20
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return &Model{
		analyzer: analyzer,
		username: username,
		timeout:  defaultAnalyzeTimeout,
		input:    ti,
		spinner:  sp,
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case analysisMsg:
		m.state = stateResult
		m.result = msg.resp
		m.cached = msg.cached
		return m, nil

	case errMsg:
		m.state = stateError
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.state {
	case stateInput:
		switch msg.Type {
		case tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			ticker := strings.ToUpper(strings.TrimSpace(m.input.Value()))
			if ticker == "" {
				return m, nil
			}
			m.ticker = ticker
			m.state = stateLoading
			return m, tea.Batch(m.spinner.Tick, m.analyzeCmd(ticker))
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case stateResult, stateError:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "enter", "n":
			m.reset()
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m *Model) reset() {
	m.state = stateInput
	m.result = nil
	m.err = nil
	m.cached = false
	m.input.SetValue("")
	m.input.Focus()
}

func (m *Model) analyzeCmd(ticker string) tea.Cmd {
	analyzer := m.analyzer
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, cached, err := analyzer.Analyze(ctx, ticker)
		if err != nil {
			return errMsg{err: err}
		}
		return analysisMsg{resp: resp, cached: cached}
	}
}
