package mode

// activateStatic leaves the base applied and does nothing per frame.
func activateStatic(env *Env) Teardown {
	return newScope(env).Teardown
}
