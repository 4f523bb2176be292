/*
Package authsdk is a Go client for the idgate credential service, plus the
request and response types both sides of the wire share.

# Overview

Every endpoint answers with the same envelope:

	{"success": true, "message": "...", "data": ...}

On failure success is false, message says what went wrong and, for
validation failures, data maps field names to reasons. The client turns
failures into *APIError values.

# Credential flows

	client := authsdk.NewSDKClient("https://auth.example.com")

	// Create an account. The response carries an access and a refresh token.
	auth, err := client.Register(ctx, authsdk.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret1",
	})

	// Log in again later.
	auth, err = client.Login(ctx, authsdk.LoginRequest{Email: "alice@example.com", Password: "secret1"})

	// Trade a refresh token for a new pair.
	auth, err = client.Refresh(ctx, auth.RefreshToken)

	// Ask for a reset email, then consume the token from the link.
	err = client.SendResetLink(ctx, authsdk.ResetLinkRequest{Email: "alice@example.com"})
	account, err := client.ForgotPassword(ctx, authsdk.ForgotPasswordRequest{
		Email:       "alice@example.com",
		NewPassword: "secret2",
		Token:       tokenFromLink,
	})

	// Change the password while logged in.
	account, err = client.ChangePassword(ctx, auth.AccessToken, authsdk.ChangePasswordRequest{
		Email:       "alice@example.com",
		NewPassword: "secret3",
	})

# Accounts

Account endpoints take the caller's access token:

	me, err := client.Profile(ctx, auth.AccessToken)
	all, err := client.ListAccounts(ctx, auth.AccessToken)
	updated, err := client.UpdateAccount(ctx, auth.AccessToken, me.ID, authsdk.UpdateAccountRequest{
		Contact: authsdk.String("+61 400 000 000"),
	})

Admins can also ban and unban:

	_, err = client.BanAccount(ctx, adminToken, userID)

# Errors

	_, err := client.Login(ctx, req)
	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		// wrong password
	}

# Validation

Request types carry a Validate method returning field→reason, or nil. The
server runs the same checks, so calling it first saves a round trip:

	if errs := req.Validate(); errs != nil {
		for field, reason := range errs {
			fmt.Printf("%s: %s\n", field, reason)
		}
	}
*/
package authsdk
