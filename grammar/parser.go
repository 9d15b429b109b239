package grammar

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"hdlgen/internal/errors"
)

var parser = participle.MustBuild[File](
	participle.Lexer(RmapLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseFile parses the description at path
func ParseFile(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}

// ParseString parses source; filename is only used for positions
func ParseString(filename, source string) (*File, error) {
	file, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, parseError(err)
	}
	return file, nil
}

// parseError turns a participle error into a positioned DesignError so the
// reporter can print the offending line with a caret under it.
func parseError(err error) error {
	pe, ok := err.(participle.Error)
	if !ok {
		return errors.NewDesignError(errors.ErrorParse, err.Error()).Build()
	}
	return errors.NewDesignError(errors.ErrorParse, pe.Message()).
		At(Position(pe.Position())).
		WithHelp("check the syntax near the marked token").
		Build()
}

// Position converts a lexer position to an error position
func Position(pos lexer.Position) errors.Position {
	return errors.Position{Filename: pos.Filename, Line: pos.Line, Column: pos.Column}
}
