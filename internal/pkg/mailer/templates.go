package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// ResetEmailData reúne os dados dos templates do e-mail de recuperação de senha.
type ResetEmailData struct {
	Name      string
	Token     string
	ExpiresIn string // e.g., "15 minutos"
}

// BuildResetEmail monta o assunto e os corpos (texto e HTML) do e-mail
// de recuperação de senha.
func BuildResetEmail(data ResetEmailData) (subject, textBody, htmlBody string) {
	subject = "Recuperação de senha — GoExam"
	textBody = buildResetText(data)
	htmlBody = buildResetHTML(data)
	return subject, textBody, htmlBody
}

func buildResetText(data ResetEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Olá %s,\n\n", data.Name))
	buf.WriteString(fmt.Sprintf("Seu código de recuperação de senha é: %s\n\n", data.Token))
	buf.WriteString(fmt.Sprintf("Este código expira em %s e só pode ser usado uma vez.\n\n", data.ExpiresIn))
	buf.WriteString("Se você não solicitou a recuperação de senha, ignore este e-mail.\n")
	return buf.String()
}

func buildResetHTML(data ResetEmailData) string {
	tmpl := template.Must(template.New("reset").Parse(resetHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const resetHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Recuperação de senha</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; color: #4f46e5;">GoExam</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px;">Olá {{.Name}},</p>
              <p style="margin: 0 0 16px;">Seu código de recuperação de senha é:</p>
              <p style="margin: 0 0 16px; font-size: 28px; font-weight: bold; letter-spacing: 2px; text-align: center;">{{.Token}}</p>
              <p style="margin: 0 0 16px;">Este código expira em {{.ExpiresIn}} e só pode ser usado uma vez.</p>
              <p style="margin: 0; color: #6b7280;">Se você não solicitou a recuperação de senha, ignore este e-mail.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
