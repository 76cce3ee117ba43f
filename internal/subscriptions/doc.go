// Package subscriptions implementa el alta de suscriptores y la confirmación
// por token.
//
// Register escribe suscriptor y token en una sola transacción y recién
// después del commit envía el email de confirmación. Si el envío falla el
// suscriptor queda pendiente pero confirmable.
package subscriptions
