package common

// ViewTokenHeaderName is the HTTP header used to carry the bearer view token
// on watermark and progress requests.
const ViewTokenHeaderName = "X-View-Token"

// UserIDHeaderName carries the authenticated user id resolved by the outer
// auth layer. Session issuance and order creation read it.
const UserIDHeaderName = "X-User-Id"
