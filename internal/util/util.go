package util

func PtrTo[T any](value T) *T {
	return &value
}

func Require[T any](v T, err error) T {
	Must(err)
	return v
}

func Must(err error) {
	if err != nil {
		panic(err)
	}
}
