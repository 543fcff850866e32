package diff

func (w *walker) diffDirectives() {
	oldDoc, newDoc := w.ctx.Old(), w.ctx.New()

	for _, name := range oldDoc.DirectiveNames() {
		od := oldDoc.Directive(name)
		nd := newDoc.Directive(name)
		if nd == nil {
			w.ctx.Report(APIBreakage().
				TypeName(name).
				TypeKind(KindDirective).
				Category(CategoryDirective).
				ReasonMsg("Directive @%s was removed", name).
				Build())
			continue
		}

		newLocations := toSet(nd.Locations)
		for _, loc := range od.Locations {
			if _, ok := newLocations[loc]; !ok {
				w.ctx.Report(APIBreakage().
					TypeName(name).
					TypeKind(KindDirective).
					Category(CategoryDirectiveLocation).
					ReasonMsg("Location %s was removed from directive @%s", loc, name).
					Components(loc).
					Build())
			}
		}
		oldLocations := toSet(od.Locations)
		for _, loc := range nd.Locations {
			if _, ok := oldLocations[loc]; !ok {
				w.ctx.Report(APIInfo().
					TypeName(name).
					TypeKind(KindDirective).
					Category(CategoryDirectiveLocation).
					ReasonMsg("Location %s was added to directive @%s", loc, name).
					Components(loc).
					Build())
			}
		}

		switch {
		case od.Repeatable && !nd.Repeatable:
			w.ctx.Report(APIBreakage().
				TypeName(name).
				TypeKind(KindDirective).
				Category(CategoryDirective).
				ReasonMsg("Directive @%s is no longer repeatable", name).
				Build())
		case !od.Repeatable && nd.Repeatable:
			w.ctx.Report(APIInfo().
				TypeName(name).
				TypeKind(KindDirective).
				Category(CategoryDirective).
				ReasonMsg("Directive @%s is now repeatable", name).
				Build())
		}

		w.diffInputValues(inputScope{
			typeName: name,
			kind:     KindDirective,
			category: CategoryArgument,
			noun:     "argument",
		}, od.Args, nd.Args)
	}

	for _, name := range newDoc.DirectiveNames() {
		if oldDoc.Directive(name) != nil {
			continue
		}
		w.ctx.Report(APIInfo().
			TypeName(name).
			TypeKind(KindDirective).
			Category(CategoryDirective).
			ReasonMsg("Directive @%s was added", name).
			Build())
	}
}
