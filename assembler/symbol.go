package assembler

// UNRESOLVED is the address of a symbol that has been referenced,
// but not yet defined.
const UNRESOLVED = int32(-1)

// Symbol is a named code address.
type Symbol struct {
	Name    string
	Address int32
}

// Resolved returns true once the symbol's label has been scanned.
func (sym Symbol) Resolved() bool {
	return sym.Address != UNRESOLVED
}

// Fixup is a forward reference to patch once all labels are known.
// The placeholder written at Offset is the symbol table Index.
type Fixup struct {
	Offset int64
	Index  int32
}

// symbolOf returns the table index of name, creating an unresolved
// symbol on first use.
func (asm *Assembler) symbolOf(name string) (index int32) {
	index, ok := asm.index[name]
	if ok {
		return
	}

	index = int32(len(asm.Symbol))
	asm.Symbol = append(asm.Symbol, Symbol{Name: name, Address: UNRESOLVED})
	asm.index[name] = index

	return
}

// Lookup returns the symbol called name from the last translation.
func (asm *Assembler) Lookup(name string) (sym Symbol, ok bool) {
	index, ok := asm.index[name]
	if !ok {
		return
	}
	return asm.Symbol[index], true
}
