// Package file is the thin platform I/O wrapper malis uses to load a
// script from disk. A full stateful fopen/fclose/fread/fwrite/fseek/
// ftell builtin API is out of scope (no standard library beyond the
// single `clock` builtin), so this package only does what the driver
// needs: reading a source file into memory before handing it to the
// lexer.
package file

import "os"

// ReadSource reads the malis source file at path, returning its
// contents as a string ready for the lexer.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
