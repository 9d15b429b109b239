// Package grammar parses register-map descriptions (.rmap files).
//
//	module uart {
//	  input clk
//	  input rstn
//	  bus axi_lite prefix cbus clock clk reset rstn data 32 {
//	    rw div : 32
//	    ro rx_data : 8
//	    trigger start
//	  }
//	}
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type File struct {
	Pos      lexer.Position
	Elements []*Element `@@*`
}

type Element struct {
	Comment *Comment `  @@`
	Module  *Module  `| @@`
}

type Comment struct {
	Pos  lexer.Position
	Text string `@Comment`
}

type PosIdent struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  string `@Ident`
}

type Module struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Grouped bool     `[ @"grouped" ]`
	Name    PosIdent `"module" @@ "{"`
	Items   []*Item  `@@* "}"`
}

type Item struct {
	Comment    *Comment    `  @@`
	Param      *Param      `| @@`
	LocalParam *LocalParam `| @@`
	Port       *Port       `| @@`
	Logic      *Logic      `| @@`
	Bus        *Bus        `| @@`
	FIFO       *FIFO       `| @@`
	Stream     *Stream     `| @@`
}

type Param struct {
	Pos     lexer.Position
	Name    PosIdent `"param" @@`
	Default string   `[ "=" @(Integer | Ident) ]`
}

type LocalParam struct {
	Pos   lexer.Position
	Name  PosIdent `"localparam" @@ "="`
	Value string   `@(Integer | Ident)`
}

type Port struct {
	Pos    lexer.Position
	Dir    string   `@("input" | "output" | "inout")`
	Name   PosIdent `@@`
	Width  *int     `[ ":" @Integer ]`
	Length *int     `[ "[" @Integer "]" ]`
}

type Logic struct {
	Pos    lexer.Position
	Name   PosIdent `"logic" @@`
	Width  *int     `[ ":" @Integer ]`
	Length *int     `[ "[" @Integer "]" ]`
}

type Bus struct {
	Pos       lexer.Position
	EndPos    lexer.Position
	Kind      PosIdent   `"bus" @@`
	Prefix    string     `[ "prefix" @Ident ]`
	Clock     string     `[ "clock" @Ident ]`
	Reset     string     `[ "reset" @Ident ]`
	DataWidth *int       `[ "data" @Integer ]`
	Items     []*BusItem `"{" @@* "}"`
}

type BusItem struct {
	Comment  *Comment  `  @@`
	Register *Register `| @@`
}

type Register struct {
	Pos    lexer.Position
	Kind   PosIdent `@@`
	Name   PosIdent `@@`
	Width  *int     `[ ":" @Integer ]`
	Length *int     `[ "[" @Integer "]" ]`
}

type FIFO struct {
	Pos    lexer.Position
	Name   PosIdent `"fifo" @@`
	Width  int      `":" @Integer`
	Length int      `"[" @Integer "]"`
}

type Stream struct {
	Pos   lexer.Position
	Role  string   `"stream" @("slave" | "master" | "wire")`
	Name  PosIdent `@@`
	Width *int     `[ ":" @Integer ]`
}

// Registers returns the register entries of the bus, skipping comments
func (b *Bus) Registers() []*Register {
	var regs []*Register
	for _, item := range b.Items {
		if item.Register != nil {
			regs = append(regs, item.Register)
		}
	}
	return regs
}

// Modules returns the modules of the file, skipping comments
func (f *File) Modules() []*Module {
	var mods []*Module
	for _, e := range f.Elements {
		if e.Module != nil {
			mods = append(mods, e.Module)
		}
	}
	return mods
}
