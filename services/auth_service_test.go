package services

import (
	"testing"
	"time"

	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	setupTestDB(t)
	t.Setenv("JWT_SECRET", "test-secret")

	user, token, err := RegisterUser("new@test.com", "s3cret!", "New User")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "s3cret!", user.Password)

	claims, err := utils.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "new@test.com", claims["email"])

	// duplicate email
	_, _, err = RegisterUser("new@test.com", "other", "Other")
	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)

	_, _, err = AuthenticateUser("new@test.com", "wrong")
	var ae *utils.AuthError
	require.ErrorAs(t, err, &ae)
	_, _, err = AuthenticateUser("ghost@test.com", "s3cret!")
	require.ErrorAs(t, err, &ae)

	logged, token, err := AuthenticateUser("new@test.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token)
}

func TestPasswordResetFlow(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("JWT_SECRET", "test-secret")

	user, _, err := RegisterUser("reset@test.com", "original", "Reset User")
	require.NoError(t, err)

	// unknown emails get the same silent treatment
	require.NoError(t, StartPasswordReset("ghost@test.com"))

	require.NoError(t, StartPasswordReset(user.Email))
	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	require.NotEmpty(t, fresh.ResetToken)
	assert.True(t, fresh.ResetTokenExp.After(time.Now()))

	var ve *utils.ValidationError
	require.ErrorAs(t, CompletePasswordReset("wrong-code", "newpass"), &ve)

	require.NoError(t, CompletePasswordReset(fresh.ResetToken, "newpass"))

	_, _, err = AuthenticateUser(user.Email, "original")
	var ae *utils.AuthError
	require.ErrorAs(t, err, &ae)
	_, _, err = AuthenticateUser(user.Email, "newpass")
	require.NoError(t, err)

	// the code is single-use
	require.ErrorAs(t, CompletePasswordReset(fresh.ResetToken, "again"), &ve)
}
