package pipeline

import (
	"context"
	"errors"
)

// fakeOracle scripts the gateway transport for pipeline tests. fn sees
// the 1-based transport attempt number and the prompt.
type fakeOracle struct {
	calls   int
	prompts []string
	fn      func(call int, prompt string) (string, error)
}

func (f *fakeOracle) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.fn(f.calls, prompt)
}

// failingOracle always errors, exhausting the gateway's retries.
func failingOracle() *fakeOracle {
	return &fakeOracle{fn: func(int, string) (string, error) {
		return "", errors.New("oracle down")
	}}
}

// silentOracle always answers with an empty payload (oracle "not found").
func silentOracle() *fakeOracle {
	return &fakeOracle{fn: func(int, string) (string, error) {
		return "", nil
	}}
}
