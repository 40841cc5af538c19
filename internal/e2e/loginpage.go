// internal/e2e/loginpage.go
//
// Page object for the login view.
//
// Context
// -------
// Locators follow the accessible UI contract: inputs by label, the submit
// and forgot-password controls by button role and name, the banner by the
// alert role, the welcome view by heading role and test id.  A locator
// that stops matching means the contract broke, not just the markup.
// Browser tests in this package run only with `-tags e2e`; the page object
// builds everywhere so API drift breaks compilation early.
package e2e

import (
	"regexp"
	"strings"

	"github.com/playwright-community/playwright-go"
)

var (
	loginName   = regexp.MustCompile(`(?i)login`)
	welcomeName = regexp.MustCompile(`(?i)welcome`)
	forgotName  = regexp.MustCompile(`(?i)forgot password`)

	// loginPost matches the document response to a form submit, not the
	// /login/field calls the script makes.
	loginPost = regexp.MustCompile(`/login(\?.*)?$`)
)

// LoginPage drives one browser tab showing /login.
type LoginPage struct {
	page    playwright.Page
	baseURL string
}

// NewLoginPage wraps page.  baseURL has no trailing slash.
func NewLoginPage(page playwright.Page, baseURL string) *LoginPage {
	return &LoginPage{page: page, baseURL: strings.TrimRight(baseURL, "/")}
}

// Open loads a fresh page view.
func (p *LoginPage) Open() error {
	_, err := p.page.Goto(p.baseURL+"/login", playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	return err
}

func (p *LoginPage) Username() playwright.Locator {
	return p.page.GetByLabel("Username", playwright.PageGetByLabelOptions{Exact: playwright.Bool(true)})
}

func (p *LoginPage) Password() playwright.Locator {
	return p.page.GetByLabel("Password", playwright.PageGetByLabelOptions{Exact: playwright.Bool(true)})
}

func (p *LoginPage) SubmitButton() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: loginName})
}

func (p *LoginPage) ForgotPassword() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: forgotName})
}

func (p *LoginPage) Banner() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleAlert)
}

func (p *LoginPage) WelcomeHeading() playwright.Locator {
	return p.page.GetByRole(*playwright.AriaRoleHeading, playwright.PageGetByRoleOptions{Name: welcomeName})
}

func (p *LoginPage) FullName() playwright.Locator {
	return p.page.GetByTestId("user-fullname")
}

// FieldError locates the error paragraph for name (“username”, “password”).
func (p *LoginPage) FieldError(name string) playwright.Locator {
	return p.page.Locator("#" + name + "-error")
}

// Login fills both fields and submits.
func (p *LoginPage) Login(username, password string) (playwright.Response, error) {
	if err := p.Username().Fill(username); err != nil {
		return nil, err
	}
	if err := p.Password().Fill(password); err != nil {
		return nil, err
	}
	return p.Submit()
}

// Submit clicks the button and returns once the server has answered the
// POST.  The new document may still be committing; read it through
// auto-waiting assertions.
func (p *LoginPage) Submit() (playwright.Response, error) {
	return p.page.ExpectResponse(loginPost, func() error {
		return p.SubmitButton().Click()
	})
}
