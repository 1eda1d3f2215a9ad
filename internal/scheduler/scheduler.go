package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tanq16/mediafire-dl/internal/output"
	"github.com/tanq16/mediafire-dl/internal/utils"
)

func NewJob(req utils.DownloadRequest) utils.Job {
	return utils.Job{ID: uuid.NewString(), Request: req}
}

// Run processes jobs strictly in order with one downloader. A failed job is
// recorded and the run moves on to the next one. It returns the number of
// failed jobs.
func Run(ctx context.Context, jobs []utils.Job, downloader utils.Downloader, outputMgr *output.Manager) int {
	for _, job := range jobs {
		funcID := outputMgr.RegisterFunction(job.Request.URL)
		outputMgr.SetMessage(funcID, fmt.Sprintf("Downloading %s", job.Request.URL))
		log.Debug().Str("op", "scheduler").Str("job", job.ID).Msgf("starting %s", job.Request.URL)

		dest, err := downloader.Download(ctx, job.Request)
		if err != nil {
			log.Debug().Str("op", "scheduler").Str("job", job.ID).Err(err).Msg("job failed")
			outputMgr.ReportError(funcID, err)
			continue
		}
		outputMgr.Complete(funcID, fmt.Sprintf("Completed %s", dest))
	}
	outputMgr.ShowSummary()
	return outputMgr.Failures()
}
