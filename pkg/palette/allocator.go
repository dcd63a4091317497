// Package palette assigns palette colors to names by cycling through a fixed
// color list.
package palette

// state tracks how far a batch has progressed through the palette.
type state int

const (
	// scanning looks for the next palette slot not already in use.
	scanning state = iota
	// wrapped is entered after the cursor has run off the end of the
	// palette once; a further in-use slot switches to forcing.
	wrapped
	// forcing assigns slots in order without consulting the in-use set.
	forcing
)

// Allocator hands out palette colors to names for one assignment batch.
// It is not safe for concurrent use; start a new Allocator per batch.
type Allocator struct {
	palette []string
	used    map[string]bool
	cursor  int
	state   state
}

// NewAllocator returns an allocator over palette that avoids the colors in
// used until the palette has been exhausted.
func NewAllocator(palette []string, used []string) *Allocator {
	u := make(map[string]bool, len(used))
	for _, c := range used {
		u[c] = true
	}
	return &Allocator{
		palette: append([]string(nil), palette...),
		used:    u,
	}
}

// Next returns the color for the next unassigned name. Every call
// terminates after at most len(palette)+1 cursor steps. With an empty
// palette Next returns the empty string.
func (a *Allocator) Next() string {
	n := len(a.palette)
	if n == 0 {
		return ""
	}
	var color string
	for {
		if a.state == forcing {
			color = a.palette[a.cursor]
			break
		}
		if a.cursor < n && a.used[a.palette[a.cursor]] {
			a.cursor++
			if a.state == wrapped {
				color = a.palette[a.cursor%n]
				a.cursor = 0
				a.state = forcing
				break
			}
			continue
		}
		if a.cursor >= n {
			a.cursor = 0
			color = a.palette[a.cursor]
			a.state = wrapped
			break
		}
		color = a.palette[a.cursor]
		break
	}
	a.cursor++
	if a.cursor >= n {
		a.cursor = 0
	}
	return color
}

// Assign gives every name in names that has no entry in colors the next
// color, in the order given, and records it in colors. Names already in
// colors keep their color and do not advance the cursor.
func (a *Allocator) Assign(colors map[string]string, names []string) {
	for _, name := range names {
		if _, ok := colors[name]; ok {
			continue
		}
		colors[name] = a.Next()
	}
}

// Used returns the distinct colors bound in colorMap to names for which
// exclude returns false. The order of the result is unspecified.
func Used(colorMap map[string]string, exclude func(name string) bool) []string {
	seen := make(map[string]bool)
	var used []string
	for name, c := range colorMap {
		if exclude != nil && exclude(name) {
			continue
		}
		if !seen[c] {
			seen[c] = true
			used = append(used, c)
		}
	}
	return used
}
