package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// MaxUnlockDate is the upper bound accepted for unlock timestamps (unix
// seconds, 9999-12-31T23:59:59Z). Millisecond timestamps land above it.
const MaxUnlockDate int64 = 253402300799
