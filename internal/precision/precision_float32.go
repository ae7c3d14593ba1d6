//go:build lane2go_float32

package precision

type Float = float32
