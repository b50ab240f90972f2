package redisrepo

import "fmt"

const (
	IDENTITY_KEY = "identity:%s" // <uid>
)

func IdentityKey(uid string) string {
	return fmt.Sprintf(IDENTITY_KEY, uid)
}
