package format

import (
	"github.com/slowlang/xlate/compiler/back"
	"github.com/slowlang/xlate/compiler/mips"
	"github.com/slowlang/xlate/compiler/set"
)

// Usage appends the register usage table in program order
// followed by the whole unit summary.
func Usage(b []byte, t *back.Table) []byte {
	for _, a := range t.Addrs() {
		u, _ := t.Usage(a)

		b = app(b, 0, "%#08x:", a)
		b = appRegs(b, "\treads", u.Sources)
		b = appRegs(b, "\twrites", u.Dests)
		b = append(b, '\n')
	}

	u := t.Summary()

	b = app(b, 0, "unit:")
	b = appRegs(b, "\treads", u.Sources)
	b = appRegs(b, "\twrites", u.Dests)
	b = append(b, '\n')

	return b
}

func appRegs(b []byte, name string, s set.Bits[mips.Reg]) []byte {
	b = append(b, name...)

	if s.Size() == 0 {
		return append(b, " -"...)
	}

	s.Range(func(r mips.Reg) bool {
		b = append(b, ' ')
		b = append(b, r.String()...)

		return true
	})

	return b
}
