package notify

import (
	"bytes"
	"html/template"
	"time"
)

// ResetSubject is the subject line of the password reset email.
const ResetSubject = "Password Reset Request"

var resetTemplate = template.Must(template.New("reset").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px;">
  <h2 style="color: #333; text-align: center;">Password Reset</h2>
  <p style="font-size: 16px; color: #555;">Hello,</p>
  <p style="font-size: 16px; color: #555;">A password reset was requested for your account. The link below is valid for {{.Validity}}.</p>
  <div style="text-align: center; margin: 20px 0;">
    <a href="{{.Link}}" style="background-color: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px;">Reset Password</a>
  </div>
  <p style="font-size: 16px; color: #555;">If the button does not work, paste this link into your browser:</p>
  <p style="font-size: 14px; color: #007bff; word-wrap: break-word;">{{.Link}}</p>
  <p style="font-size: 16px; color: #555;">If you did not request this, you can ignore this email.</p>
  <hr style="margin-top: 20px; border: 0; border-top: 1px solid #ddd;">
  <p style="font-size: 12px; color: #aaa; text-align: center;">&copy; {{.Year}} {{.Product}}</p>
</div>
`))

// ResetEmail renders the HTML body of a reset email for link.
func ResetEmail(link string, validity time.Duration) (string, error) {
	var buf bytes.Buffer
	err := resetTemplate.Execute(&buf, struct {
		Link     string
		Validity string
		Year     int
		Product  string
	}{
		Link:     link,
		Validity: validity.String(),
		Year:     time.Now().Year(),
		Product:  "idgate",
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
