package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectScreenIsTotal(t *testing.T) {
	cases := []struct {
		loading, account, character bool
		want                        Screen
	}{
		{false, false, false, ScreenConnect},
		{false, false, true, ScreenConnect},
		{false, true, false, ScreenSelect},
		{false, true, true, ScreenArena},
		{true, false, false, ScreenLoading},
		{true, false, true, ScreenLoading},
		{true, true, false, ScreenLoading},
		{true, true, true, ScreenLoading},
	}
	for _, tc := range cases {
		name := fmt.Sprintf("loading=%t account=%t character=%t", tc.loading, tc.account, tc.character)
		t.Run(name, func(t *testing.T) {
			got := SelectScreen(tc.loading, tc.account, tc.character)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, SelectScreen(tc.loading, tc.account, tc.character))
		})
	}
}

func TestScreenString(t *testing.T) {
	assert.Equal(t, "arena", ScreenArena.String())
	assert.Equal(t, "unknown", Screen(42).String())
}
