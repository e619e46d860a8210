package rust

import (
	"strings"

	"github.com/broady/zerogen/derive"
)

// RuntimeModule renders the runtime crate that generated impls refer to:
// the capability trait, the free zeroed function used by union impls, and
// the leaf implementations. traitName defaults to DefaultTraitName.
func (e *Emitter) RuntimeModule(traitName string) []byte {
	if traitName == "" {
		traitName = DefaultTraitName
	}
	var b strings.Builder
	e.writeHeader(&b)

	b.WriteString(`
/// Types for which the all-zero byte pattern is a valid value.
///
/// # Safety
///
/// Implementors guarantee that a value of Self whose bytes are all zero is
/// valid.
pub unsafe trait ` + traitName + ` {
    #[inline(always)]
    fn zeroed() -> Self
    where
        Self: Sized,
    {
        unsafe { core::mem::zeroed() }
    }
}

/// Returns the all-zero value of T.
#[inline(always)]
pub fn zeroed<T>() -> T
where
    T: ` + traitName + ` + Sized,
{
    unsafe { core::mem::zeroed() }
}

`)

	b.WriteString("unsafe impl " + traitName + " for () {}\n")
	for _, leaf := range derive.ScalarLeaves() {
		b.WriteString("unsafe impl " + traitName + " for " + leaf + " {}\n")
	}
	b.WriteString("\n")
	b.WriteString("unsafe impl<T: " + traitName + "> " + traitName + " for *const T {}\n")
	b.WriteString("unsafe impl<T: " + traitName + "> " + traitName + " for *mut T {}\n")
	b.WriteString("unsafe impl<T> " + traitName + " for [T] {}\n")
	b.WriteString("unsafe impl<T: " + traitName + ", const N: usize> " + traitName + " for [T; N] {}\n")

	return []byte(b.String())
}
