package parser

import "testing"

func TestCursorCountsCodePoints(t *testing.T) {
	// The emoji is one code point even though it needs a surrogate pair
	// in UTF-16 and four bytes in UTF-8.
	c := newCursor("a😀b")

	if got := c.length(); got != 3 {
		t.Fatalf("length: got %d, want 3", got)
	}
	if got := c.peek(); got != 'a' {
		t.Errorf("peek: got %q, want 'a'", got)
	}
	if got := c.peekN(1); got != '😀' {
		t.Errorf("peekN(1): got %q, want the emoji", got)
	}
	if got := c.peekN(2); got != 'b' {
		t.Errorf("peekN(2): got %q, want 'b'", got)
	}

	c.next()
	if got := c.peek(); got != '😀' {
		t.Errorf("peek after next: got %q, want the emoji", got)
	}
	c.next()
	c.next()
	if !c.allConsumed() {
		t.Errorf("allConsumed: got false, want true")
	}
}

func TestCursorOutOfBounds(t *testing.T) {
	c := newCursor("x")

	if got := c.peekN(1); got != EndOfInput {
		t.Errorf("peekN(1): got %q, want EndOfInput", got)
	}
	if got := c.peekN(100); got != EndOfInput {
		t.Errorf("peekN(100): got %q, want EndOfInput", got)
	}
	if c.inBoundsN(1) {
		t.Errorf("inBoundsN(1): got true, want false")
	}

	c.next()
	if c.inBounds() {
		t.Errorf("inBounds at end: got true, want false")
	}
	if got := c.peek(); got != EndOfInput {
		t.Errorf("peek at end: got %q, want EndOfInput", got)
	}

	// Advancing past the end must not move the index.
	c.next()
	if c.index != 1 {
		t.Errorf("index after next at end: got %d, want 1", c.index)
	}
	if !c.allConsumed() {
		t.Errorf("allConsumed after extra next: got false, want true")
	}
}

func TestCursorEmptyInput(t *testing.T) {
	c := newCursor("")
	if c.inBounds() {
		t.Errorf("inBounds: got true, want false")
	}
	if !c.allConsumed() {
		t.Errorf("allConsumed: got false, want true")
	}
	if got := c.peek(); got != EndOfInput {
		t.Errorf("peek: got %q, want EndOfInput", got)
	}
}
