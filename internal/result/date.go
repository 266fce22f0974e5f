package result

import (
	"fmt"
	"strings"
	"time"

	"github.com/joseph-ayodele/results-parser/internal/common"
)

// DeclaredDateLayout is the printed form of a declared date, e.g. "08-FEB-24".
const DeclaredDateLayout = "2-Jan-06"

// DateCache remembers the last declared date that parsed, for pages of the same
// shard whose date is garbled. Each shard owns its own cache.
type DateCache struct {
	last      *time.Time
	fallbacks int
	err       error
}

// Resolve applies the declared-date policy to the raw field:
// absent (nil) gives nil without consulting the cache; a parsable date is
// cached and returned; anything else falls back to the cached date, if any.
func (c *DateCache) Resolve(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	if d, err := time.Parse(DeclaredDateLayout, strings.TrimSpace(*raw)); err == nil {
		c.last = &d
		return &d
	}
	c.fallbacks++
	c.err = fmt.Errorf("%w: %q", common.ErrDateParse, *raw)
	if c.last == nil {
		return nil
	}
	d := *c.last
	return &d
}

// Last returns the cached date.
func (c *DateCache) Last() (time.Time, bool) {
	if c.last == nil {
		return time.Time{}, false
	}
	return *c.last, true
}

// Fallbacks counts unparsable dates seen so far.
func (c *DateCache) Fallbacks() int { return c.fallbacks }

// Err returns the most recent parse failure, wrapping common.ErrDateParse.
func (c *DateCache) Err() error { return c.err }
