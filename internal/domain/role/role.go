package role

// DefaultName is granted to every registered user.
const DefaultName = "USER"

type Role struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
}

func New(userID int64, name string) Role {
	return Role{UserID: userID, Name: name}
}

// Names flattens roles into their names.
func Names(roles []Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, r.Name)
	}
	return out
}
