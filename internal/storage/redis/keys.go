package redis

import "fmt"

// Key prefix for all table-server data
const keyPrefix = "cardtable"

// userKey returns the Redis key for a registered user's credentials
func userKey(username string) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, username)
}
