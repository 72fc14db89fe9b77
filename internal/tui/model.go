// Package tui is the interactive client: Login, Signup and Home views
// driven by a session.Controller.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskclient/internal/output"
	"taskclient/internal/session"
)

// Messages delivered when a controller call finishes.
type (
	loginDoneMsg   struct{ err error }
	signupDoneMsg  struct{ err error }
	refreshDoneMsg struct{ err error }
	createDoneMsg  struct{ err error }
)

// credentialForm is the username/password pair shared by Login and Signup.
type credentialForm struct {
	inputs [2]textinput.Model
	focus  int
}

func newCredentialForm() credentialForm {
	user := textinput.New()
	user.Prompt = "Username: "
	user.CharLimit = 128

	pass := textinput.New()
	pass.Prompt = "Password: "
	pass.EchoMode = textinput.EchoPassword
	pass.CharLimit = 128

	f := credentialForm{inputs: [2]textinput.Model{user, pass}}
	f.inputs[0].Focus()
	return f
}

func (f *credentialForm) next() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *credentialForm) values() (string, string) {
	return strings.TrimSpace(f.inputs[0].Value()), f.inputs[1].Value()
}

func (f *credentialForm) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
		f.inputs[i].Blur()
	}
	f.focus = 0
	f.inputs[0].Focus()
}

func (f credentialForm) view(b *strings.Builder) {
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
}

// taskPrompt collects a new task's title, then its description.
type taskPrompt struct {
	title       textinput.Model
	description textinput.Model
	step        int // 0 title, 1 description
}

func newTaskPrompt() *taskPrompt {
	title := textinput.New()
	title.Prompt = "Task title: "
	title.CharLimit = 256
	title.Focus()

	desc := textinput.New()
	desc.Prompt = "Description (optional): "
	desc.CharLimit = 1024

	return &taskPrompt{title: title, description: desc}
}

// Model is the bubbletea model. All session state lives in the controller;
// the model only keeps input widgets.
type Model struct {
	ctx     context.Context
	ctrl    *session.Controller
	baseURL string

	login  credentialForm
	signup credentialForm
	prompt *taskPrompt

	pending int // controller calls in flight
}

// New creates the model.
func New(ctx context.Context, ctrl *session.Controller, baseURL string) Model {
	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		baseURL: baseURL,
		login:   newCredentialForm(),
		signup:  newCredentialForm(),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case loginDoneMsg:
		m.pending--
		if msg.err == nil {
			m.login.reset()
		}
		return m, nil

	case signupDoneMsg:
		m.pending--
		if msg.err == nil {
			user, _ := m.signup.values()
			m.signup.reset()
			m.login.reset()
			m.login.inputs[0].SetValue(user)
			m.login.next()
		}
		return m, nil

	case refreshDoneMsg, createDoneMsg:
		m.pending--
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "f1":
		m.prompt = nil
		m.ctrl.Navigate(session.ViewLogin)
		return m, nil
	case "f2":
		m.prompt = nil
		m.ctrl.Navigate(session.ViewSignup)
		return m, nil
	case "f3":
		m.ctrl.Navigate(session.ViewHome)
		return m, nil
	}

	st := m.ctrl.State()
	if msg.String() == "esc" && m.prompt == nil && (st.Err != nil || st.Notice != "") {
		m.ctrl.Dismiss()
		return m, nil
	}

	switch st.View {
	case session.ViewLogin:
		cmd := m.updateForm(&m.login, msg, m.submitLogin)
		return m, cmd
	case session.ViewSignup:
		cmd := m.updateForm(&m.signup, msg, m.submitSignup)
		return m, cmd
	default:
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		return m.updateHome(msg)
	}
}

// updateForm applies msg to f, which must point into m.
func (m *Model) updateForm(f *credentialForm, msg tea.KeyMsg, submit func(user, pass string) tea.Cmd) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		f.next()
		return nil
	case "enter":
		if f.focus == 0 {
			f.next()
			return nil
		}
		user, pass := f.values()
		m.pending++
		return submit(user, pass)
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (m Model) submitLogin(user, pass string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return loginDoneMsg{err: ctrl.Login(ctx, user, pass)}
	}
}

func (m Model) submitSignup(user, pass string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return signupDoneMsg{err: ctrl.Signup(ctx, user, pass)}
	}
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx, ctrl := m.ctx, m.ctrl
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "a":
		if !ctrl.State().LoggedIn {
			return m, nil
		}
		m.prompt = newTaskPrompt()
		return m, nil
	case "r":
		if !ctrl.State().LoggedIn {
			return m, nil
		}
		m.pending++
		return m, func() tea.Msg {
			return refreshDoneMsg{err: ctrl.RefreshTasks(ctx)}
		}
	case "o":
		ctrl.Logout()
		m.login.reset()
		return m, nil
	case "x":
		ctrl.Dismiss()
		return m, nil
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.prompt
	switch msg.String() {
	case "esc":
		m.prompt = nil
		return m, nil
	case "enter":
		if p.step == 0 {
			p.title.Blur()
			p.description.Focus()
			p.step = 1
			return m, nil
		}
		title, desc := p.title.Value(), p.description.Value()
		m.prompt = nil
		m.pending++
		ctx, ctrl := m.ctx, m.ctrl
		return m, func() tea.Msg {
			return createDoneMsg{err: ctrl.CreateTask(ctx, title, desc)}
		}
	}

	var cmd tea.Cmd
	if p.step == 0 {
		p.title, cmd = p.title.Update(msg)
	} else {
		p.description, cmd = p.description.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	st := m.ctrl.State()

	var b strings.Builder
	output.Render(&b, st)

	switch st.View {
	case session.ViewLogin:
		m.login.view(&b)
	case session.ViewSignup:
		m.signup.view(&b)
	case session.ViewHome:
		if m.prompt != nil {
			b.WriteString("\n")
			b.WriteString(m.prompt.title.View())
			b.WriteString("\n")
			if m.prompt.step == 1 {
				b.WriteString(m.prompt.description.View())
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	if m.pending > 0 {
		b.WriteString("working...\n")
	}
	b.WriteString(footer(st, m.prompt != nil))
	b.WriteString("\n")
	b.WriteString(m.baseURL)
	b.WriteString("\n")
	return b.String()
}

func footer(st session.State, prompting bool) string {
	nav := "F1 login • F2 signup • F3 home"
	switch {
	case st.View != session.ViewHome:
		return nav + " • tab next field • enter submit • esc dismiss • ctrl+c quit"
	case prompting:
		return "enter next/submit • esc cancel"
	case st.LoggedIn:
		return nav + " • a add • r refresh • o logout • x dismiss • q quit"
	default:
		return nav + " • q quit"
	}
}
