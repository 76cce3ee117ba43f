// Package email entrega un mensaje a un destinatario. Los servicios solo
// conocen Sender; el driver (smtp, ses, api, log) se elige por config.
//
//	sender, err := email.New(ctx, cfg.Email)
//	err = sender.Send(ctx, "a@x.com", "Welcome!", html, text)
//
// Cualquier error de Send es opaco para quien llama: no hay reintentos en
// este paquete.
package email
