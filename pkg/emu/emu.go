// Package emu interprets the textual x86-64 subset emitted by the code
// generator. It exists so end-to-end tests can observe the exit status of a
// compiled program without invoking an external assembler and linker.
package emu

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxSteps bounds a single run so a malformed program cannot loop forever.
const maxSteps = 1 << 20

var zeroOperandOps = map[string]bool{
	"ret":     true,
	"cqo":     true,
	"syscall": true,
}

var oneOperandOps = map[string]bool{
	"push": true,
	"pop":  true,
	"idiv": true,
	"call": true,
}

var twoOperandOps = map[string]bool{
	"mov":  true,
	"add":  true,
	"sub":  true,
	"imul": true,
}

// directives are accepted and ignored; they carry no runtime behavior here.
var directives = map[string]bool{
	"global":  true,
	"section": true,
}

type instruction struct {
	lineNo   int
	mnemonic string
	operands []string
}

// Emulator holds the decoded program and all machine state for one run.
type Emulator struct {
	program []instruction
	labels  map[string]int // label -> index into program

	regs      map[string]int64
	stack     []int64
	callStack []int
}

func New() *Emulator {
	return &Emulator{
		labels: make(map[string]int),
		regs: map[string]int64{
			"rax": 0, "rcx": 0, "rdx": 0, "rdi": 0,
		},
	}
}

// Run decodes and executes asmText starting at _start and returns the value
// passed to the exit syscall. The kernel would truncate this to the low
// 8 bits; Run reports the full rdi so tests can see the untruncated result.
func Run(asmText string) (int64, error) {
	return New().Run(asmText)
}

func (e *Emulator) Run(asmText string) (int64, error) {
	if err := e.decode(asmText); err != nil {
		return 0, err
	}

	start, ok := e.labels["_start"]
	if !ok {
		return 0, fmt.Errorf("no _start label in program")
	}

	pc := start
	for steps := 0; steps < maxSteps; steps++ {
		if pc < 0 || pc >= len(e.program) {
			return 0, fmt.Errorf("execution ran past the end of the program")
		}
		in := e.program[pc]

		switch in.mnemonic {
		case "mov":
			val, err := e.readOperand(in, 1)
			if err != nil {
				return 0, err
			}
			if err := e.writeReg(in, 0, val); err != nil {
				return 0, err
			}

		case "add", "sub", "imul":
			dst, err := e.readOperand(in, 0)
			if err != nil {
				return 0, err
			}
			src, err := e.readOperand(in, 1)
			if err != nil {
				return 0, err
			}
			var res int64
			switch in.mnemonic {
			case "add":
				res = dst + src
			case "sub":
				res = dst - src
			case "imul":
				res = dst * src
			}
			if err := e.writeReg(in, 0, res); err != nil {
				return 0, err
			}

		case "cqo":
			// Sign-extend rax into rdx.
			if e.regs["rax"] < 0 {
				e.regs["rdx"] = -1
			} else {
				e.regs["rdx"] = 0
			}

		case "idiv":
			divisor, err := e.readOperand(in, 0)
			if err != nil {
				return 0, err
			}
			dividend := e.regs["rax"]
			if divisor == 0 {
				return 0, fmt.Errorf("line %d: divide fault: division by zero", in.lineNo)
			}
			if dividend == math.MinInt64 && divisor == -1 {
				return 0, fmt.Errorf("line %d: divide fault: quotient overflow", in.lineNo)
			}
			e.regs["rax"] = dividend / divisor
			e.regs["rdx"] = dividend % divisor

		case "push":
			val, err := e.readOperand(in, 0)
			if err != nil {
				return 0, err
			}
			e.stack = append(e.stack, val)

		case "pop":
			if len(e.stack) == 0 {
				return 0, fmt.Errorf("line %d: pop from an empty stack", in.lineNo)
			}
			val := e.stack[len(e.stack)-1]
			e.stack = e.stack[:len(e.stack)-1]
			if err := e.writeReg(in, 0, val); err != nil {
				return 0, err
			}

		case "call":
			target, ok := e.labels[in.operands[0]]
			if !ok {
				return 0, fmt.Errorf("line %d: call to unknown label %q", in.lineNo, in.operands[0])
			}
			e.callStack = append(e.callStack, pc+1)
			pc = target
			continue

		case "ret":
			if len(e.callStack) == 0 {
				return 0, fmt.Errorf("line %d: ret with an empty call stack", in.lineNo)
			}
			pc = e.callStack[len(e.callStack)-1]
			e.callStack = e.callStack[:len(e.callStack)-1]
			continue

		case "syscall":
			if e.regs["rax"] != 60 {
				return 0, fmt.Errorf("line %d: unsupported syscall %d", in.lineNo, e.regs["rax"])
			}
			return e.regs["rdi"], nil

		default:
			return 0, fmt.Errorf("line %d: unknown mnemonic %q", in.lineNo, in.mnemonic)
		}

		pc++
	}

	return 0, fmt.Errorf("program exceeded %d steps without exiting", maxSteps)
}

// decode is pass 1: strip comments and directives, collect labels, and build
// the flat instruction list.
func (e *Emulator) decode(asmText string) error {
	for i, raw := range strings.Split(asmText, "\n") {
		lineNo := i + 1
		line := raw
		if idx := strings.IndexByte(line, ';'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasSuffix(line, ":") {
			label := strings.TrimSuffix(line, ":")
			if _, dup := e.labels[label]; dup {
				return fmt.Errorf("line %d: duplicate label %q", lineNo, label)
			}
			e.labels[label] = len(e.program)
			continue
		}

		fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
		mnemonic := strings.ToLower(fields[0])
		operands := fields[1:]

		if directives[mnemonic] {
			continue
		}

		var want int
		switch {
		case zeroOperandOps[mnemonic]:
			want = 0
		case oneOperandOps[mnemonic]:
			want = 1
		case twoOperandOps[mnemonic]:
			want = 2
		default:
			return fmt.Errorf("line %d: unknown mnemonic %q", lineNo, mnemonic)
		}
		if len(operands) != want {
			return fmt.Errorf("line %d: %s expects %d operand(s), got %d", lineNo, mnemonic, want, len(operands))
		}

		e.program = append(e.program, instruction{lineNo: lineNo, mnemonic: mnemonic, operands: operands})
	}
	return nil
}

// readOperand resolves operand n of in as either a register or an immediate.
func (e *Emulator) readOperand(in instruction, n int) (int64, error) {
	op := in.operands[n]
	if val, ok := e.regs[op]; ok {
		return val, nil
	}
	val, err := strconv.ParseInt(op, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: unknown register or bad immediate %q", in.lineNo, op)
	}
	return val, nil
}

// writeReg stores val into the register named by operand n of in.
func (e *Emulator) writeReg(in instruction, n int, val int64) error {
	op := in.operands[n]
	if _, ok := e.regs[op]; !ok {
		return fmt.Errorf("line %d: unknown destination register %q", in.lineNo, op)
	}
	e.regs[op] = val
	return nil
}
