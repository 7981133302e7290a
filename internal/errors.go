package internal

import "fmt"

// Fault kinds raised by the VM
const (
	AddressOutOfRange = FaultKind(iota)
	StackPointerOutOfRange
	BadArgument
	BadInstruction
	IoFault
)

var faultNames = []string{
	"address out of range",
	"stack pointer out of range",
	"bad argument",
	"bad instruction",
	"I/O fault",
}

// FaultKind describes the nature of a VM fault.
// It implements error so callers can match with errors.Is.
type FaultKind int

func (k FaultKind) Error() string {
	if int(k) < 0 || int(k) >= len(faultNames) {
		return fmt.Sprintf("fault %d", int(k))
	}
	return faultNames[k]
}

// Fault describes the cause and the context of a fatal VM fault.
type Fault struct {
	Kind   FaultKind // nature of the fault
	Err    error     // underlying error when Kind is IoFault
	PC     uint16    // address of the faulting instruction
	Opcode uint16    // faulting instruction word
	Addr   uint16    // offending address or operand
}

func (f *Fault) Error() string {
	msg := "chopper: " + f.Kind.Error()
	switch f.Kind {
	case AddressOutOfRange:
		msg += fmt.Sprintf(" $%04X", f.Addr)
	case BadArgument:
		msg += fmt.Sprintf(" %d", f.Addr)
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	if f.PC != 0 {
		msg += fmt.Sprintf(" (opcode %04X at $%03X)", f.Opcode, f.PC)
	}
	return msg
}

// Unwrap exposes both the fault kind and the wrapped cause.
func (f *Fault) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.Err}
}

func addressFault(addr uint16) error {
	return &Fault{Kind: AddressOutOfRange, Addr: addr}
}

func argumentFault(arg uint8) error {
	return &Fault{Kind: BadArgument, Addr: uint16(arg)}
}
