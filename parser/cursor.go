package parser

// EndOfInput is returned by out-of-bounds peeks. It is not a valid code
// point, so callers can branch on it without a separate bounds check.
const EndOfInput rune = -1

// cursor scans the input one code point at a time. Indices count code
// points, not bytes: the input is decoded once up front.
type cursor struct {
	src   []rune
	index int
}

func newCursor(source string) cursor {
	return cursor{src: []rune(source)}
}

func (c *cursor) peek() rune {
	return c.peekN(0)
}

func (c *cursor) peekN(n int) rune {
	i := c.index + n
	if i < 0 || i >= len(c.src) {
		return EndOfInput
	}
	return c.src[i]
}

// next advances by exactly one code point. Advancing past the end is a
// no-op; the cursor never moves beyond len(src).
func (c *cursor) next() {
	if c.index < len(c.src) {
		c.index++
	}
}

func (c *cursor) inBounds() bool {
	return c.index < len(c.src)
}

func (c *cursor) inBoundsN(n int) bool {
	return c.index+n < len(c.src)
}

func (c *cursor) allConsumed() bool {
	return c.index == len(c.src)
}

func (c *cursor) length() int {
	return len(c.src)
}
