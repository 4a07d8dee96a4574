package back

import (
	"context"
	"testing"

	"github.com/slowlang/xlate/compiler/asm"
	"github.com/slowlang/xlate/compiler/mips"
)

func TestSmoke(t *testing.T) {
	ctx := context.Background()

	var b asm.Buffer

	u, err := Translate(ctx, &mips.Context{Sink: &b}, nil)
	if err != nil {
		t.Errorf("translate: %v", err)
	}

	if u.State() != Done || len(b.Code) != 0 || u.MaxStack() != 0 {
		t.Errorf("unexpected result: state %v  code %v  max stack %v", u.State(), b.Code, u.MaxStack())
	}
}
