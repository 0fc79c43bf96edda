package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

const brandName = "Estilos Boom"

var passwordResetHTML = htmltemplate.Must(htmltemplate.New("passwordResetHTML").Parse(`<!DOCTYPE html>
<html lang="es">
  <body style="font-family: Arial, sans-serif; background-color: #f6f6f6; padding: 24px;">
    <div style="max-width: 520px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
      <h1 style="color: #1a1a1a; font-size: 22px;">Estilos Boom</h1>
      <p>Hola{{if .Name}} {{.Name}}{{end}},</p>
      <p>Recibimos una solicitud para restablecer la contraseña de tu cuenta.</p>
      <p style="margin: 28px 0;">
        <a href="{{.ResetLink}}" style="background: #e91e63; color: #ffffff; padding: 12px 24px; border-radius: 4px; text-decoration: none;">Restablecer contraseña</a>
      </p>
      <p>Si no solicitaste este cambio, puedes ignorar este correo. El enlace expira pronto.</p>
      <p style="color: #888888; font-size: 12px;">Equipo de Estilos Boom</p>
    </div>
  </body>
</html>
`))

var passwordResetText = texttemplate.Must(texttemplate.New("passwordResetText").Parse(`Hola{{if .Name}} {{.Name}}{{end}},

Recibimos una solicitud para restablecer la contraseña de tu cuenta en Estilos Boom.

Restablece tu contraseña aquí: {{.ResetLink}}

Si no solicitaste este cambio, ignora este correo.

Equipo de Estilos Boom
`))

var tempCredentialsHTML = htmltemplate.Must(htmltemplate.New("tempCredentialsHTML").Parse(`<!DOCTYPE html>
<html lang="es">
  <body style="font-family: Arial, sans-serif; background-color: #f6f6f6; padding: 24px;">
    <div style="max-width: 520px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
      <h1 style="color: #1a1a1a; font-size: 22px;">Estilos Boom</h1>
      <p>Hola{{if .Name}} {{.Name}}{{end}},</p>
      <p>Se creó una cuenta para ti en Estilos Boom. Estas son tus credenciales temporales:</p>
      <p style="margin: 20px 0; padding: 16px; background: #f0f0f0; border-radius: 4px;">
        <strong>Correo:</strong> {{.Email}}<br>
        <strong>Contraseña temporal:</strong> {{.TempPassword}}
      </p>
      <p>Por seguridad, deberás cambiar esta contraseña al iniciar sesión por primera vez.</p>
      <p style="color: #888888; font-size: 12px;">Equipo de Estilos Boom</p>
    </div>
  </body>
</html>
`))

var tempCredentialsText = texttemplate.Must(texttemplate.New("tempCredentialsText").Parse(`Hola{{if .Name}} {{.Name}}{{end}},

Se creó una cuenta para ti en Estilos Boom. Estas son tus credenciales temporales:

Correo: {{.Email}}
Contraseña temporal: {{.TempPassword}}

Por seguridad, deberás cambiar esta contraseña al iniciar sesión por primera vez.

Equipo de Estilos Boom
`))

func renderPasswordReset(p PasswordResetPayload) (subject, text, html string, err error) {
	subject = fmt.Sprintf("Restablece tu contraseña de %s", brandName)

	var textBuf, htmlBuf bytes.Buffer
	if err = passwordResetText.Execute(&textBuf, p); err != nil {
		return "", "", "", fmt.Errorf("render password reset text: %w", err)
	}
	if err = passwordResetHTML.Execute(&htmlBuf, p); err != nil {
		return "", "", "", fmt.Errorf("render password reset html: %w", err)
	}
	return subject, textBuf.String(), htmlBuf.String(), nil
}

func renderTempCredentials(p TempCredentialsPayload) (subject, text, html string, err error) {
	subject = fmt.Sprintf("Tus credenciales temporales de %s", brandName)

	var textBuf, htmlBuf bytes.Buffer
	if err = tempCredentialsText.Execute(&textBuf, p); err != nil {
		return "", "", "", fmt.Errorf("render temp credentials text: %w", err)
	}
	if err = tempCredentialsHTML.Execute(&htmlBuf, p); err != nil {
		return "", "", "", fmt.Errorf("render temp credentials html: %w", err)
	}
	return subject, textBuf.String(), htmlBuf.String(), nil
}
