package clientdir_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/randalmurphal/clientdir/pkg/clientdir"
)

// uniqueRegistrations draws a non-empty set with unique aliases. Client ids
// come from a small pool so they repeat.
func uniqueRegistrations() *rapid.Generator[[]clientdir.ClientRegistration] {
	return rapid.Custom(func(t *rapid.T) []clientdir.ClientRegistration {
		aliases := rapid.SliceOfNDistinct(
			rapid.StringMatching(`[a-z][a-z0-9-]{0,8}`), 1, 20, rapid.ID[string],
		).Draw(t, "aliases")

		regs := make([]clientdir.ClientRegistration, len(aliases))
		for i, alias := range aliases {
			regs[i] = clientdir.ClientRegistration{
				ClientAlias: alias,
				ClientID:    fmt.Sprintf("client-%d", rapid.IntRange(0, 4).Draw(t, "clientID")),
			}
		}
		return regs
	})
}

func TestProperty_AllRoundTrips(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		regs := uniqueRegistrations().Draw(rt, "regs")

		dir, err := clientdir.New(regs)
		require.NoError(rt, err)
		require.Equal(rt, regs, dir.All())
	})
}

func TestProperty_EveryRegistrationIsReachable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		regs := uniqueRegistrations().Draw(rt, "regs")

		dir, err := clientdir.New(regs)
		require.NoError(rt, err)

		for _, r := range regs {
			got, ok, err := dir.ByAlias(r.ClientAlias)
			require.NoError(rt, err)
			require.True(rt, ok)
			require.Equal(rt, r, got)

			byID, err := dir.ByClientID(r.ClientID)
			require.NoError(rt, err)
			require.Contains(rt, byID, r)
			for _, other := range byID {
				require.Equal(rt, r.ClientID, other.ClientID)
			}
		}
	})
}

func TestProperty_DuplicateAliasRejected(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		regs := uniqueRegistrations().Draw(rt, "regs")
		dupOf := rapid.IntRange(0, len(regs)-1).Draw(rt, "dupOf")
		at := rapid.IntRange(0, len(regs)).Draw(rt, "at")

		dup := clientdir.ClientRegistration{ClientAlias: regs[dupOf].ClientAlias, ClientID: "dup"}
		withDup := make([]clientdir.ClientRegistration, 0, len(regs)+1)
		withDup = append(withDup, regs[:at]...)
		withDup = append(withDup, dup)
		withDup = append(withDup, regs[at:]...)

		_, err := clientdir.New(withDup)
		require.ErrorIs(rt, err, clientdir.ErrDuplicateAlias)

		dir, err := clientdir.New(regs)
		require.NoError(rt, err)
		err = dir.Reload(withDup)
		require.ErrorIs(rt, err, clientdir.ErrDuplicateAlias)
		require.Equal(rt, regs, dir.All())
		require.Equal(rt, uint64(1), dir.Generation())
	})
}
