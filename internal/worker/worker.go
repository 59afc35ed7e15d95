package worker

type Worker interface {
	Run(c <-chan ImportJob, results chan<- ImportResult)
}
