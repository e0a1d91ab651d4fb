package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Sternrassler/raydium-pools-bot/pkg/pools"
)

// NoopPayload is attached to the current-page label button.
const NoopPayload = "noop"

const payloadTag = "pools"

// ErrMalformedPayload is returned for callback data that is not {type}_pools_{page}.
var ErrMalformedPayload = errors.New("malformed callback payload")

// EncodePayload renders req as {poolType}_pools_{page}.
func EncodePayload(req pools.PageRequest) string {
	return fmt.Sprintf("%s_%s_%d", req.PoolType, payloadTag, req.Page)
}

// DecodePayload parses {poolType}_pools_{page}. Only the exact form
// EncodePayload produces is accepted. The page is returned as sent, including
// values below 1.
func DecodePayload(data string) (pools.PageRequest, error) {
	parts := strings.Split(data, "_")
	if len(parts) != 3 || parts[1] != payloadTag {
		return pools.PageRequest{}, fmt.Errorf("%w: %q", ErrMalformedPayload, data)
	}

	poolType, err := pools.ParsePoolType(parts[0])
	if err != nil {
		return pools.PageRequest{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	page, err := strconv.Atoi(parts[2])
	if err != nil || strconv.Itoa(page) != parts[2] {
		return pools.PageRequest{}, fmt.Errorf("%w: page %q", ErrMalformedPayload, parts[2])
	}

	return pools.PageRequest{PoolType: poolType, Page: page}, nil
}
