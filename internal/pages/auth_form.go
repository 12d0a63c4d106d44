package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// FormType selects the sign-in or sign-up variant of the auth form.
type FormType string

const (
	SignInForm FormType = "sign-in"
	SignUpForm FormType = "sign-up"
)

// AuthFormData is the state re-rendered after a failed submission.
type AuthFormData struct {
	Type  FormType
	Name  string
	Email string
	Error string
}

func (d AuthFormData) isSignIn() bool {
	return d.Type != SignUpForm
}

// AuthForm renders the email/password form. Sign-up adds a name field.
func AuthForm(data AuthFormData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		action, heading, submit := "/sign-up", "Practice job interviews with AI", "Create an account"
		if data.isSignIn() {
			action, submit = "/sign-in", "Sign in"
		}

		p.raw(`<section class="auth-form"><h2>`)
		p.text(heading)
		p.raw(`</h2>`)
		if data.Error != "" {
			p.raw(`<p class="error" role="alert">`)
			p.text(data.Error)
			p.raw(`</p>`)
		}
		p.raw(`<form method="post" action="` + action + `">`)
		if !data.isSignIn() {
			p.raw(`<label for="name">Name</label>`)
			p.raw(`<input id="name" name="name" type="text" placeholder="Your name" required value="`)
			p.text(data.Name)
			p.raw(`">`)
		}
		p.raw(`<label for="email">Email</label>`)
		p.raw(`<input id="email" name="email" type="email" placeholder="Your email address" required value="`)
		p.text(data.Email)
		p.raw(`">`)
		p.raw(`<label for="password">Password</label>`)
		p.raw(`<input id="password" name="password" type="password" placeholder="Enter your password" required>`)
		p.raw(`<button type="submit">`)
		p.text(submit)
		p.raw(`</button></form>`)

		if data.isSignIn() {
			p.raw(`<p>No account yet? <a href="/sign-up">Sign up</a></p>`)
		} else {
			p.raw(`<p>Have an account already? <a href="/sign-in">Sign in</a></p>`)
		}
		p.raw(`</section>`)
		return p.err
	})
}

// AuthPage renders AuthForm inside the layout.
func AuthPage(data AuthFormData) templ.Component {
	title := "Sign up"
	if data.isSignIn() {
		title = "Sign in"
	}
	return Layout(title, AuthForm(data))
}
