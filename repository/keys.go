package repository

import "fmt"

// Key layout shared with the original statuspy deployment; changing any of
// these breaks compatibility with existing data.
const nextUserIDKey = "global:nextUserId"

func usernameKey(username string) string {
	return fmt.Sprintf("username:%s:uid", username)
}

func usernameOfKey(id uint64) string {
	return fmt.Sprintf("uid:%d:username", id)
}

func passwordKey(id uint64) string {
	return fmt.Sprintf("uid:%d:password", id)
}

func emailKey(id uint64) string {
	return fmt.Sprintf("uid:%d:email", id)
}

func followersKey(id uint64) string {
	return fmt.Sprintf("uid:%d:followers", id)
}

func followingKey(id uint64) string {
	return fmt.Sprintf("uid:%d:following", id)
}
