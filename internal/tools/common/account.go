package common

// GetAccountFromArgs extracts the account name from request arguments.
// Falls back to "default" when no account is specified.
func GetAccountFromArgs(args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return "default"
}
