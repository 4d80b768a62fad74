package httpclient

import (
	"context"
	"net/http"
)

const tokenPath = "token"

type tokenRequest struct {
	ConsumerKey    string `json:"consumerKey"`
	ConsumerSecret string `json:"consumerSecret"`
}

type tokenResponse struct {
	Channel *struct {
		Token *string `json:"token"`
	} `json:"channel"`
}

// fetchToken exchanges the consumer credentials for a session token. A response
// without channel.token is reported as ok=false, not as an error.
func (c *Client) fetchToken(ctx context.Context) (string, bool, error) {
	res, err := c.execute(ctx, http.MethodPost, tokenPath, tokenRequest{
		ConsumerKey:    c.consumerKey,
		ConsumerSecret: c.consumerSecret,
	}, true)
	if err != nil {
		return "", false, err
	}

	var tr tokenResponse
	if err := res.Decode(&tr); err != nil || tr.Channel == nil || tr.Channel.Token == nil {
		c.log.WarnObj("knawat token exchange returned no token", "knawat_token", map[string]any{
			"url":    res.EffectiveURL,
			"status": res.Transport.StatusCode,
		})
		return "", false, nil
	}

	c.log.InfoObj("knawat token acquired", "knawat_token", map[string]any{
		"url":    res.EffectiveURL,
		"status": res.Transport.StatusCode,
	})
	return *tr.Channel.Token, true, nil
}
