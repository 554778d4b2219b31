package kernel

// multiObserver fans each processed event out to several observers in
// registration order.
type multiObserver []Observer

func (m multiObserver) OnEvent(e ProcessedEvent) {
	for _, o := range m {
		o.OnEvent(e)
	}
}

// Observers combines observers into one, delivering each event to all of
// them in the given order. Nil entries are skipped.
func Observers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}
