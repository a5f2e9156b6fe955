package nonexhaustive

import (
	"fmt"
	"unsafe"
)

const wordSize = unsafe.Sizeof(uintptr(0))

// Storage is the fixed size and alignment budget a nonexhaustive enum's
// values are declared to fit in. The budget is part of the boundary
// contract: every build of the library must keep the enum within it, which
// is what lets old callers hold values of variants added later.
type Storage struct {
	Size  uintptr
	Align uintptr
}

// Words returns a budget of n pointer-sized words at word alignment, the
// common choice for small enums.
func Words(n int) Storage {
	if n < 1 {
		n = 1
	}
	return Storage{Size: uintptr(n) * wordSize, Align: wordSize}
}

// Fits reports whether a value of the given size and alignment stays within
// the budget.
func (s Storage) Fits(size, align uintptr) bool {
	return size <= s.Size && align != 0 && s.Align%align == 0
}

func (s Storage) String() string {
	return fmt.Sprintf("%d bytes / align %d", s.Size, s.Align)
}
