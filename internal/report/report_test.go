package report

import (
	"github.com/dbsmedya/schemadiff/internal/diff"
)

func sampleEvents() []diff.Event {
	return []diff.Event{
		diff.APIBreakage().
			TypeName("User").
			TypeKind(diff.KindObject).
			Category(diff.CategoryField).
			FieldName("email").
			ReasonMsg("Field email was removed from User").
			Build(),
		diff.APIDanger().
			TypeName("Color").
			TypeKind(diff.KindEnum).
			Category(diff.CategoryEnumValue).
			FieldName("TEAL").
			ReasonMsg("Enum value TEAL was added to Color").
			Components("TEAL").
			Build(),
		diff.APIInfo().
			TypeName("Query").
			TypeKind(diff.KindObject).
			Category(diff.CategoryField).
			FieldName("search").
			ReasonMsg("Field search was added to Query").
			Build(),
		diff.APIBreakage().
			TypeName("Post").
			TypeKind(diff.KindObject).
			Category(diff.CategoryType).
			ReasonMsg("The new schema does not contain type Post").
			Build(),
	}
}

func replay(r diff.Reporter, events []diff.Event) {
	for _, e := range events {
		r.Report(e)
	}
	r.OnEnd()
}
