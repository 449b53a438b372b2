package shortlink

import "github.com/jaevor/go-nanoid"

// codeAlphabet is strictly alphanumeric. Generated codes never contain the
// hyphen or underscore that custom codes may use, so they stay double-click
// selectable and safe in any URL position.
const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultCodeLength is the length of generated codes.
const DefaultCodeLength = 6

// NewCodeGenerator returns a generator producing fixed-length alphanumeric
// codes.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	generate, err := nanoid.CustomASCII(codeAlphabet, length)
	if err != nil {
		return nil, err
	}

	return CodeGenerator(generate), nil
}
