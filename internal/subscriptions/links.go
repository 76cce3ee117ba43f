package subscriptions

import (
	"net/url"
	"strings"
)

// ConfirmPath es la ruta HTTP que consume el link de confirmación.
const ConfirmPath = "/subscriptions/confirm"

// TokenParam es el query param del token.
const TokenParam = "subscription_token"

// ConfirmationLink arma {base}/subscriptions/confirm?subscription_token={token}.
func ConfirmationLink(baseURL, token string) string {
	q := url.Values{}
	q.Set(TokenParam, token)
	return strings.TrimRight(baseURL, "/") + ConfirmPath + "?" + q.Encode()
}

const welcomeSubject = "Welcome!"

func welcomeBodies(link string) (htmlBody, textBody string) {
	htmlBody = `Welcome to our newsletter!<br />Click <a href="` + link + `">here</a> to confirm your subscription.`
	textBody = "Welcome to our newsletter!\nVisit " + link + " to confirm your subscription."
	return htmlBody, textBody
}
