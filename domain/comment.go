package domain

import "slices"

// Comment is a reply attached to an issue. UserVotes holds the ids of users who up-voted it.
type Comment struct {
	Entity           `bson:",inline"`
	Title            string   `json:"title" bson:"title"`
	Description      string   `json:"description" bson:"description"`
	Issue            IssueRef `json:"issue" bson:"issue"`
	Author           UserRef  `json:"author" bson:"author"`
	UserVotes        []string `json:"userVotes" bson:"userVotes"`
	IsAnswer         bool     `json:"isAnswer" bson:"isAnswer"`
	AnswerSelectedBy *UserRef `json:"answerSelectedBy,omitempty" bson:"answerSelectedBy,omitempty"`
}

// ToggleVote adds the user's vote, or removes it when already present.
// It returns true when the vote was added.
func (c *Comment) ToggleVote(userID string) bool {
	if idx := slices.Index(c.UserVotes, userID); idx >= 0 {
		c.UserVotes = slices.Delete(c.UserVotes, idx, idx+1)
		return false
	}
	c.UserVotes = append(c.UserVotes, userID)
	return true
}
