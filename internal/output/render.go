package output

import (
	"fmt"
	"io"
	"strings"

	"taskclient/internal/session"
)

var viewOrder = []session.View{session.ViewLogin, session.ViewSignup, session.ViewHome}

var viewTitles = map[session.View]string{
	session.ViewLogin:  "Login",
	session.ViewSignup: "Signup",
	session.ViewHome:   "Home",
}

// Render writes the active view for st. It only reads its input, so the
// same state always paints the same text.
//
// Layout:
//
//	[Login]  Signup  Home
//	------------
//	<notification, if any>
//	<view body>
func Render(w io.Writer, st session.State) {
	renderTabs(w, st.View)
	fmt.Fprintln(w, ListSeparator)

	switch {
	case st.Err != nil:
		fmt.Fprintf(w, "error: %v\n", st.Err)
	case st.Notice != "":
		fmt.Fprintln(w, st.Notice)
	}

	switch st.View {
	case session.ViewLogin:
		fmt.Fprintln(w, "Log in to your account")
	case session.ViewSignup:
		fmt.Fprintln(w, "Create an account")
	case session.ViewHome:
		renderHome(w, st)
	}
}

// RenderString is Render into a string.
func RenderString(st session.State) string {
	var b strings.Builder
	Render(&b, st)
	return b.String()
}

func renderTabs(w io.Writer, active session.View) {
	tabs := make([]string, 0, len(viewOrder))
	for _, v := range viewOrder {
		if v == active {
			tabs = append(tabs, "["+viewTitles[v]+"]")
		} else {
			tabs = append(tabs, viewTitles[v])
		}
	}
	fmt.Fprintln(w, strings.Join(tabs, "  "))
}

func renderHome(w io.Writer, st session.State) {
	if !st.LoggedIn {
		fmt.Fprintln(w, "not logged in")
		return
	}

	line := "Signed in as " + st.Subject
	if !st.Expiry.IsZero() {
		line += fmt.Sprintf(" (token expires %s)", st.Expiry.Local().Format("15:04"))
	}
	fmt.Fprintln(w, line)
	fmt.Fprintln(w)

	if len(st.Tasks) == 0 {
		fmt.Fprintln(w, NoTasks)
		return
	}
	FormatTasks(w, st.Tasks)
}
