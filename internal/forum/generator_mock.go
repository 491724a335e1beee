package forum

import "context"

var _ commentGenerator = (*generatorMock)(nil)

// generatorMock is a commentGenerator for unit tests, it records the last
// post content it was asked about and returns a canned comment
type generatorMock struct {
	comment     string
	lastContent string
}

func newGeneratorMock(comment string) *generatorMock {
	return &generatorMock{comment: comment}
}

func (g *generatorMock) ForumComment(_ context.Context, postContent string) string {
	g.lastContent = postContent
	return g.comment
}
