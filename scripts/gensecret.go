//go:build ignore

// One-off: go run scripts/gensecret.go [bytes]
// Prints a random AUTH_SECRET. With -check PASSWORD HASH it verifies a
// stored bcrypt hash instead.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) == 4 && os.Args[1] == "-check" {
		if err := bcrypt.CompareHashAndPassword([]byte(os.Args[3]), []byte(os.Args[2])); err != nil {
			fmt.Println("mismatch")
			os.Exit(1)
		}
		fmt.Println("ok")
		return
	}

	n := 48
	if len(os.Args) > 1 {
		v, err := strconv.Atoi(os.Args[1])
		if err != nil || v < 32 {
			fmt.Fprintln(os.Stderr, "bytes must be a number >= 32")
			os.Exit(2)
		}
		n = v
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	fmt.Print(base64.RawURLEncoding.EncodeToString(b))
}
