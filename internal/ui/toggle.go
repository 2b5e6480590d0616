package ui

import "strings"

// FormView selects which account form the page shows.
type FormView int

const (
	LoginView FormView = iota
	RegisterView
)

// ParseFormView maps the ?form= query value to a view. Anything other than
// "register" selects the login form.
func ParseFormView(s string) FormView {
	if strings.EqualFold(strings.TrimSpace(s), "register") {
		return RegisterView
	}
	return LoginView
}

func (v FormView) String() string {
	if v == RegisterView {
		return "register"
	}
	return "login"
}

// Apply shows the view's form and hides the other.
func (v FormView) Apply(p *Page) error {
	if v == RegisterView {
		return ShowRegister(p)
	}
	return ShowLogin(p)
}

// ShowRegister hides #loginForm and shows #registerForm.
func ShowRegister(p *Page) error {
	if err := p.SetDisplay(IDLoginForm, DisplayNone); err != nil {
		return err
	}
	return p.SetDisplay(IDRegisterForm, DisplayBlock)
}

// ShowLogin hides #registerForm and shows #loginForm.
func ShowLogin(p *Page) error {
	if err := p.SetDisplay(IDRegisterForm, DisplayNone); err != nil {
		return err
	}
	return p.SetDisplay(IDLoginForm, DisplayBlock)
}
