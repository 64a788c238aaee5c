// Package receiver implements the approval receiver: a test double for the
// receiving side of the token approval callback.
//
// nft_on_approve accepts notifications only from the configured token
// account. The "return-now" message resolves to "cool" immediately; any other
// message is echoed back through a deferred call to the service's own echo
// method, whose result becomes the callback result.
package receiver
