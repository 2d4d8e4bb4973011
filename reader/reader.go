// Package reader loads strings embedded in built shared libraries.
package reader

import "github.com/coreos/pkg/dlopen"

import "C"

// ReadString opens the library at from and returns the NUL terminated
// string stored at symbol.
func ReadString(from, symbol string) (string, error) {
	handle, err := dlopen.GetHandle([]string{from})
	if err != nil {
		return "", err
	}
	defer handle.Close()

	sym, err := handle.GetSymbolPointer(symbol)
	if err != nil {
		return "", err
	}

	str := C.GoString((*C.char)(sym))
	return str, nil
}
