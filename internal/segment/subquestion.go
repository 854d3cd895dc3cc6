package segment

import (
	"examcorpus-backend/internal/exams"
)

// Link folds the ordered unit sequence into question records, carrying
// one piece of state: the currently open parent question number. A
// sub-marker unit attaches to that parent; a main unit replaces it. The
// state propagates forward, so "2. a) b) c)" links every lettered part
// back to 2 no matter how many there are.
//
// The first unit of a document is never a sub-question: with no parent
// open yet, a leading sub-marker is promoted to a main question.
func Link(units []Unit) []exams.QuestionUnit {
	out := make([]exams.QuestionUnit, 0, len(units))
	var currentParent *int

	for i, u := range units {
		q := exams.QuestionUnit{
			Text:   u.Text,
			Length: len(u.Text),
		}

		switch {
		case u.IsSubMarker && i > 0 && currentParent != nil:
			parent := *currentParent
			q.IsSubQuestion = true
			q.ParentQuestionNumber = &parent
			q.QuestionNumber = i + 1
		default:
			q.QuestionNumber = u.Number
			if q.QuestionNumber == 0 {
				q.QuestionNumber = i + 1
			}
			n := q.QuestionNumber
			currentParent = &n
		}

		out = append(out, q)
	}
	return out
}
