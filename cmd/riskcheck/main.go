package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skufu/diabetes-risk/internal/assess"
	"github.com/Skufu/diabetes-risk/internal/features"
	"github.com/Skufu/diabetes-risk/internal/logger"
	"github.com/Skufu/diabetes-risk/internal/model"
	"github.com/Skufu/diabetes-risk/internal/report"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var modelPath string

	root := &cobra.Command{
		Use:          "riskcheck",
		Short:        "riskcheck runs a single diabetes risk assessment from the command line",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&modelPath, "model", model.DefaultPath, "path to the model artifact")

	newService := func() (*assess.Service, error) {
		m, err := model.Load(modelPath)
		if err != nil {
			return nil, err
		}
		return assess.NewService(m, logger.Nop()), nil
	}

	root.AddCommand(newClinicalCmd(out, newService), newLifestyleCmd(out, newService))
	return root
}

func newClinicalCmd(out io.Writer, newService func() (*assess.Service, error)) *cobra.Command {
	in := features.DefaultClinicalInput()

	cmd := &cobra.Command{
		Use:     "clinical",
		Short:   "Assess risk from clinical measurements",
		Example: "riskcheck clinical --glucose 180 --blood-pressure 90 --bmi 32 --age 45",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			a, err := svc.AssessClinical(context.Background(), in)
			if err != nil {
				return err
			}
			return report.WriteText(out, a.Report)
		},
	}

	f := cmd.Flags()
	f.IntVar(&in.Pregnancies, "pregnancies", in.Pregnancies, "number of pregnancies (0-10)")
	f.IntVar(&in.Glucose, "glucose", in.Glucose, "blood glucose in mg/dL (50-300)")
	f.IntVar(&in.BloodPressure, "blood-pressure", in.BloodPressure, "blood pressure in mmHg (40-120)")
	f.IntVar(&in.SkinThickness, "skin-thickness", in.SkinThickness, "skin fold thickness in mm (10-60)")
	f.IntVar(&in.Insulin, "insulin", in.Insulin, "insulin level in μU/mL (0-300)")
	f.Float64Var(&in.BMI, "bmi", in.BMI, "body mass index (15-50)")
	f.Float64Var(&in.Pedigree, "pedigree", in.Pedigree, "genetic score (0-2)")
	f.IntVar(&in.Age, "age", in.Age, "age in years (20-80)")
	return cmd
}

func newLifestyleCmd(out io.Writer, newService func() (*assess.Service, error)) *cobra.Command {
	in := features.DefaultLifestyleInput()
	var family, activity, diet string

	cmd := &cobra.Command{
		Use:     "lifestyle",
		Short:   "Quick check from lifestyle answers, no medical tests needed",
		Example: `riskcheck lifestyle --age 45 --weight 90 --height 170 --activity Rarely --diet "Junk Food"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.FamilyHistory, err = features.ParseFamilyHistory(family); err != nil {
				return err
			}
			if in.Activity, err = features.ParseActivity(activity); err != nil {
				return err
			}
			if in.Diet, err = features.ParseDiet(diet); err != nil {
				return err
			}

			svc, err := newService()
			if err != nil {
				return err
			}
			a, err := svc.AssessLifestyle(context.Background(), in)
			if err != nil {
				return err
			}
			return report.WriteText(out, a.Report)
		},
	}

	f := cmd.Flags()
	f.IntVar(&in.Age, "age", in.Age, "age in years (20-80)")
	f.IntVar(&in.WeightKg, "weight", in.WeightKg, "weight in kg (30-150)")
	f.IntVar(&in.HeightCm, "height", in.HeightCm, "height in cm (120-220)")
	f.StringVar(&family, "family-history", string(in.FamilyHistory), fmt.Sprintf("family history of diabetes %v", features.FamilyHistories))
	f.StringVar(&activity, "activity", string(in.Activity), fmt.Sprintf("physical activity %v", features.Activities))
	f.StringVar(&diet, "diet", string(in.Diet), fmt.Sprintf("diet type %v", features.Diets))
	return cmd
}
