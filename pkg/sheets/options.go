package sheets

import (
	"google.golang.org/api/option"
)

type Option func(*Client)

// WithClientOptions replaces the credentials-file option used to build the
// Sheets service. Useful for pointing the client at another endpoint.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *Client) {
		c.clientOptions = append(c.clientOptions, opts...)
	}
}

func WithValueInputOption(valueInputOption string) Option {
	return func(c *Client) {
		c.valueInputOption = valueInputOption
	}
}
