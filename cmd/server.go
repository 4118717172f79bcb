package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"collectordao/handler/hc"
	"collectordao/handler/rest"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run collectordao api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		system := provideSystem()

		memberStore := provideMemberStore(database)
		proposalStore := provideProposalStore(database)
		voteStore := provideVoteStore(database)
		delegationStore := provideDelegationStore(database)
		eventStore := provideEventStore(database)

		memberService := provideMemberService(database, system, memberStore, eventStore)
		proposalService := provideProposalService(database, system, memberStore, proposalStore, eventStore)
		voteService := provideVoteService(database, system, memberStore, proposalStore, voteStore, eventStore)
		executionService := provideExecutionService(database, system, memberStore, proposalStore, eventStore)
		delegationService := provideDelegationService(database, memberStore, delegationStore, eventStore)

		mux := chi.NewMux()
		mux.Use(middleware.Recoverer)
		mux.Use(middleware.StripSlashes)
		mux.Use(cors.AllowAll().Handler)
		mux.Use(logger.WithRequestID)
		mux.Use(middleware.Logger)

		{
			//hc
			mux.Mount("/hc", hc.Handle(system.Version))
		}

		{
			//restful api
			mux.Mount("/api", rest.Handle(
				system,
				memberService,
				memberStore,
				proposalService,
				proposalStore,
				voteService,
				executionService,
				delegationService,
			))
		}

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		logrus.Infoln("serve at", addr)
		err := server.ListenAndServe()
		if err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
}
