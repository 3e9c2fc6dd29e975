package passpkg

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

func TestPassword(t *testing.T) {
	password := randompkg.String(12)

	hashedPassword1, err := Hash(password)
	require.NoError(t, err)
	require.NotEmpty(t, hashedPassword1)

	err = Check(password, hashedPassword1)
	require.NoError(t, err)

	err = Check("wrong-"+password, hashedPassword1)
	require.EqualError(t, err, bcrypt.ErrMismatchedHashAndPassword.Error())

	// salt is random
	hashedPassword2, err := Hash(password)
	require.NoError(t, err)
	require.NotEqual(t, hashedPassword1, hashedPassword2)
}

func TestHashTooLong(t *testing.T) {
	_, err := Hash(randompkg.String(73))
	require.Error(t, err)
}
