package mapping

func List[A any, B any](in []A, mappingFunc func(A) B) []B {
	out := make([]B, len(in))
	for i, el := range in {
		out[i] = mappingFunc(el)
	}
	return out
}

func PtrOrNil[A any, B any](value *A, mappingFunc func(A) B) *B {
	if value == nil {
		return nil
	}
	b := mappingFunc(*value)
	return &b
}
