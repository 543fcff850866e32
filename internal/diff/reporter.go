package diff

// Reporter receives the differences found by a diff run. Report is called
// once per event while the schemas are walked; OnEnd is called once after
// the walk completes. Implementations need not be safe for concurrent use.
type Reporter interface {
	Report(event Event)
	OnEnd()
}
