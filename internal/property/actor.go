package property

import "github.com/jomei/notionapi"

// ActorType distinguishes the two kinds of Notion users.
type ActorType string

const (
	ActorPerson ActorType = "person"
	ActorBot    ActorType = "bot"
)

// Actor is the decoded form of a created_by / last_edited_by value.
// Type is empty when Notion only reported the user id.
// People carry an Email; bots carry the Owner descriptor Notion reports for them.
type Actor struct {
	Type  ActorType `json:"type,omitempty" mapstructure:"type"`
	ID    string    `json:"id,omitempty" mapstructure:"id"`
	Name  string    `json:"name,omitempty" mapstructure:"name"`
	Email string    `json:"email,omitempty" mapstructure:"email"`
	Owner any       `json:"owner,omitempty" mapstructure:"owner"`
}

// IsBot reports whether the actor is an integration.
func (a Actor) IsBot() bool {
	return a.Type == ActorBot
}

// ActorFromUser converts a Notion user object. Page envelopes carry partial
// users ({object, id}); those keep an empty Type rather than being guessed.
func ActorFromUser(u notionapi.User) Actor {
	a := Actor{
		ID:   string(u.ID),
		Name: u.Name,
	}
	switch {
	case u.Person != nil || string(u.Type) == string(ActorPerson):
		a.Type = ActorPerson
		if u.Person != nil {
			a.Email = u.Person.Email
		}
	case u.Bot != nil || string(u.Type) == string(ActorBot):
		a.Type = ActorBot
		if u.Bot != nil {
			a.Owner = u.Bot.Owner
		}
	}
	return a
}
