package ast

type (
	Node interface {
	}

	Base struct {
		Pos int
		End int
	}

	// Listing is a sequence of decoded instructions in text form.
	Listing struct {
		Base `tlog:",embed"`

		Lines []*Line
	}

	// Line is [addr:] mnemonic [operand {, operand}].
	Line struct {
		Base `tlog:",embed"`

		Addr Node // Int or nil
		Op   Ident
		Args []Node // Reg or Int
	}

	Ident struct {
		Base `tlog:",embed"`
	}

	Int struct {
		Base `tlog:",embed"`
	}

	Reg struct {
		Base `tlog:",embed"`
	}
)
