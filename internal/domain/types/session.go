package types

// SessionCache is the last-known relay diagnostics snapshot. It is encrypted
// at rest because it may reveal connectivity topology.
type SessionCache struct {
	PrimaryStatus   string `json:"primary_status"`
	SecondaryStatus string `json:"secondary_status"`
}
