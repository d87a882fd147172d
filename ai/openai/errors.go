package openai

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/poiesic/folio/ai"
)

// classifyErr maps transport and API failures onto the ai error taxonomy so
// callers can decide retryability without knowing the provider. The original
// error stays wrapped for logging.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ai.ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return errors.Join(ai.ErrTimeout, err)
		}
		return errors.Join(ai.ErrProviderUnavailable, err)
	}

	// The OpenAI-compatible client surfaces HTTP status in the message.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "rate limit"):
		return errors.Join(ai.ErrRateLimited, err)
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "502"),
		strings.Contains(msg, "503"):
		return errors.Join(ai.ErrProviderUnavailable, err)
	case strings.Contains(msg, "400"), strings.Contains(msg, "413"):
		return errors.Join(ai.ErrInvalidPayload, err)
	}
	return err
}
